package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (user_id, title, message, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.Kind).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, kind, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.IsRead, &n.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
