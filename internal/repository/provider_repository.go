package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
)

type ProviderRepository interface {
	GetDefaultActive(ctx context.Context, contentType string) (*models.AIProvider, error)
	List(ctx context.Context) ([]*models.AIProvider, error)
}

type providerRepository struct {
	db *sql.DB
}

func NewProviderRepository(db *sql.DB) ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) GetDefaultActive(ctx context.Context, contentType string) (*models.AIProvider, error) {
	query := `
		SELECT id, name, content_type, model, cost_per_unit, pricing_unit, is_default, is_active
		FROM ai_providers
		WHERE content_type = $1 AND is_default = TRUE AND is_active = TRUE
		LIMIT 1
	`
	var p models.AIProvider
	err := r.db.QueryRowContext(ctx, query, contentType).Scan(
		&p.ID, &p.Name, &p.ContentType, &p.Model, &p.CostPerUnit, &p.PricingUnit, &p.IsDefault, &p.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &p, nil
}

func (r *providerRepository) List(ctx context.Context) ([]*models.AIProvider, error) {
	query := `
		SELECT id, name, content_type, model, cost_per_unit, pricing_unit, is_default, is_active
		FROM ai_providers
		ORDER BY content_type, name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var providers []*models.AIProvider
	for rows.Next() {
		var p models.AIProvider
		err := rows.Scan(&p.ID, &p.Name, &p.ContentType, &p.Model, &p.CostPerUnit, &p.PricingUnit, &p.IsDefault, &p.IsActive)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		providers = append(providers, &p)
	}
	return providers, rows.Err()
}
