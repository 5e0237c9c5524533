package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
)

type PipelineHistoryRepository interface {
	// CreateBatch flushes the history rows of one run in a single
	// transaction. Rows are never updated afterwards.
	CreateBatch(ctx context.Context, entries []*models.PipelineHistory) error
	ListByPipelineID(ctx context.Context, pipelineID int64, limit int) ([]*models.PipelineHistory, error)
}

type pipelineHistoryRepository struct {
	db *sql.DB
}

func NewPipelineHistoryRepository(db *sql.DB) PipelineHistoryRepository {
	return &pipelineHistoryRepository{db: db}
}

func (r *pipelineHistoryRepository) CreateBatch(ctx context.Context, entries []*models.PipelineHistory) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO pipeline_history (pipeline_id, step_id, status, result, error_message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, e := range entries {
		_, err = tx.ExecContext(ctx, query, e.PipelineID, e.StepID, e.Status, e.Result, e.ErrorMsg, e.StartedAt, e.FinishedAt)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pipelineHistoryRepository) ListByPipelineID(ctx context.Context, pipelineID int64, limit int) ([]*models.PipelineHistory, error) {
	query := `
		SELECT id, pipeline_id, step_id, status, result, error_message, started_at, finished_at
		FROM pipeline_history
		WHERE pipeline_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, pipelineID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.PipelineHistory
	for rows.Next() {
		var e models.PipelineHistory
		err := rows.Scan(&e.ID, &e.PipelineID, &e.StepID, &e.Status, &e.Result, &e.ErrorMsg, &e.StartedAt, &e.FinishedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
