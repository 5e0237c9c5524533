package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/contentforge/backend/internal/models"
)

type PipelineRepository interface {
	Create(ctx context.Context, pipeline *models.Pipeline, steps []*models.PipelineStep) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Pipeline, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Pipeline, error)
	// ListDue returns active pipelines whose next_run_at has passed,
	// oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Pipeline, error)
	ListSteps(ctx context.Context, pipelineID int64) ([]*models.PipelineStep, error)
	// RecordRun updates run counters and timestamps after an attempt.
	RecordRun(ctx context.Context, pipelineID int64, success bool, nextRunAt time.Time) error
	UpdateSchedule(ctx context.Context, pipelineID int64, schedule string, nextRunAt time.Time) error
	SetStatus(ctx context.Context, pipelineID int64, status string) error
	CheckByUserID(ctx context.Context, pipelineID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type pipelineRepository struct {
	db *sql.DB
}

func NewPipelineRepository(db *sql.DB) PipelineRepository {
	return &pipelineRepository{db: db}
}

func (r *pipelineRepository) Create(ctx context.Context, pipeline *models.Pipeline, steps []*models.PipelineStep) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO pipelines (user_id, name, content_type, prompt_template, gen_config, schedule, next_run_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err = tx.QueryRowContext(ctx, query,
		pipeline.UserID,
		pipeline.Name,
		pipeline.ContentType,
		pipeline.PromptTemplate,
		pipeline.GenConfig,
		pipeline.Schedule,
		pipeline.NextRunAt,
		pipeline.Status,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	stepQuery := `
		INSERT INTO pipeline_steps (pipeline_id, step_order, step_type, config)
		VALUES ($1, $2, $3, $4)
	`
	for _, step := range steps {
		_, err = tx.ExecContext(ctx, stepQuery, id, step.StepOrder, step.StepType, step.Config)
		if err != nil {
			slog.Info(err.Error())
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *pipelineRepository) GetByID(ctx context.Context, id int64) (*models.Pipeline, error) {
	query := `
		SELECT id, user_id, name, content_type, prompt_template, gen_config, schedule,
			next_run_at, last_run_at, total_runs, successful_runs, failed_runs, status, created_at, updated_at
		FROM pipelines WHERE id = $1
	`
	var p models.Pipeline
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.ContentType, &p.PromptTemplate, &p.GenConfig, &p.Schedule,
		&p.NextRunAt, &p.LastRunAt, &p.TotalRuns, &p.SuccessfulRuns, &p.FailedRuns, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &p, nil
}

func (r *pipelineRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Pipeline, error) {
	query := `
		SELECT id, user_id, name, content_type, prompt_template, gen_config, schedule,
			next_run_at, last_run_at, total_runs, successful_runs, failed_runs, status, created_at, updated_at
		FROM pipelines WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPipelines(rows)
}

func (r *pipelineRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Pipeline, error) {
	query := `
		SELECT id, user_id, name, content_type, prompt_template, gen_config, schedule,
			next_run_at, last_run_at, total_runs, successful_runs, failed_runs, status, created_at, updated_at
		FROM pipelines
		WHERE status = $1 AND next_run_at <= $2
		ORDER BY next_run_at ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, models.PipelineStatusActive, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPipelines(rows)
}

func scanPipelines(rows *sql.Rows) ([]*models.Pipeline, error) {
	var pipelines []*models.Pipeline
	for rows.Next() {
		var p models.Pipeline
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.ContentType, &p.PromptTemplate, &p.GenConfig, &p.Schedule,
			&p.NextRunAt, &p.LastRunAt, &p.TotalRuns, &p.SuccessfulRuns, &p.FailedRuns, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pipelines = append(pipelines, &p)
	}
	return pipelines, rows.Err()
}

func (r *pipelineRepository) ListSteps(ctx context.Context, pipelineID int64) ([]*models.PipelineStep, error) {
	query := `
		SELECT id, pipeline_id, step_order, step_type, config, created_at
		FROM pipeline_steps
		WHERE pipeline_id = $1
		ORDER BY step_order ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pipelineID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var steps []*models.PipelineStep
	for rows.Next() {
		var s models.PipelineStep
		err := rows.Scan(&s.ID, &s.PipelineID, &s.StepOrder, &s.StepType, &s.Config, &s.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		steps = append(steps, &s)
	}
	return steps, rows.Err()
}

func (r *pipelineRepository) RecordRun(ctx context.Context, pipelineID int64, success bool, nextRunAt time.Time) error {
	query := `
		UPDATE pipelines
		SET total_runs = total_runs + 1,
			successful_runs = successful_runs + CASE WHEN $1 THEN 1 ELSE 0 END,
			failed_runs = failed_runs + CASE WHEN $1 THEN 0 ELSE 1 END,
			last_run_at = CURRENT_TIMESTAMP,
			next_run_at = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, success, nextRunAt, pipelineID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pipelineRepository) UpdateSchedule(ctx context.Context, pipelineID int64, schedule string, nextRunAt time.Time) error {
	query := `
		UPDATE pipelines
		SET schedule = $1,
			next_run_at = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, schedule, nextRunAt, pipelineID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pipelineRepository) SetStatus(ctx context.Context, pipelineID int64, status string) error {
	query := `UPDATE pipelines SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, pipelineID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *pipelineRepository) CheckByUserID(ctx context.Context, pipelineID, userID int64) (bool, error) {
	query := "SELECT 1 FROM pipelines WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, pipelineID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *pipelineRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM pipelines WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
