package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/contentforge/backend/internal/models"
)

type ScheduledJobRepository interface {
	Create(ctx context.Context, job *models.ScheduledJob) (int64, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledJob, error)
	// Reschedule advances next_run and stamps last_run. Called after
	// every attempt regardless of outcome.
	Reschedule(ctx context.Context, id int64, nextRun, lastRun time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type scheduledJobRepository struct {
	db *sql.DB
}

func NewScheduledJobRepository(db *sql.DB) ScheduledJobRepository {
	return &scheduledJobRepository{db: db}
}

func (r *scheduledJobRepository) Create(ctx context.Context, job *models.ScheduledJob) (int64, error) {
	query := `
		INSERT INTO scheduled_jobs (pipeline_id, schedule, next_run, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, job.PipelineID, job.Schedule, job.NextRun, job.IsActive).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *scheduledJobRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledJob, error) {
	query := `
		SELECT id, pipeline_id, schedule, next_run, last_run, is_active, created_at, updated_at
		FROM scheduled_jobs
		WHERE is_active = TRUE AND next_run <= $1
		ORDER BY next_run ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.ScheduledJob
	for rows.Next() {
		var j models.ScheduledJob
		err := rows.Scan(&j.ID, &j.PipelineID, &j.Schedule, &j.NextRun, &j.LastRun, &j.IsActive, &j.CreatedAt, &j.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (r *scheduledJobRepository) Reschedule(ctx context.Context, id int64, nextRun, lastRun time.Time) error {
	query := `
		UPDATE scheduled_jobs
		SET next_run = $1,
			last_run = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, nextRun, lastRun, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledJobRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE scheduled_jobs SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
