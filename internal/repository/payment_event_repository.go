package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
)

type PaymentEventRepository interface {
	Exists(ctx context.Context, gateway, eventID string) (bool, error)
	Create(ctx context.Context, e *models.PaymentEvent) (int64, error)
}

type paymentEventRepository struct {
	db *sql.DB
}

func NewPaymentEventRepository(db *sql.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) Exists(ctx context.Context, gateway, eventID string) (bool, error) {
	query := "SELECT 1 FROM payment_events WHERE gateway = $1 AND event_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, gateway, eventID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *paymentEventRepository) Create(ctx context.Context, e *models.PaymentEvent) (int64, error) {
	query := `
		INSERT INTO payment_events (gateway, event_id, event_type, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, e.Gateway, e.EventID, e.EventType, e.Payload).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}
