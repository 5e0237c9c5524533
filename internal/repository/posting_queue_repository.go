package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/contentforge/backend/internal/models"
)

type PostingQueueRepository interface {
	Create(ctx context.Context, item *models.PostingQueueItem) (int64, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PostingQueueItem, error)
	// Claim flips a row pending -> processing only if it is still
	// pending, so two overlapping drainers cannot both take it.
	Claim(ctx context.Context, id int64) (bool, error)
	MarkPosted(ctx context.Context, id int64, platformPostID, platformPostURL string) error
	MarkFailed(ctx context.Context, id int64, errorMessage string) error
	ListByUserID(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error)
	CheckByUserID(ctx context.Context, itemID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postingQueueRepository struct {
	db *sql.DB
}

func NewPostingQueueRepository(db *sql.DB) PostingQueueRepository {
	return &postingQueueRepository{db: db}
}

func (r *postingQueueRepository) Create(ctx context.Context, item *models.PostingQueueItem) (int64, error) {
	query := `
		INSERT INTO posting_queue (user_id, account_id, platform, content, content_url, post_config, scheduled_for, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		item.UserID,
		item.AccountID,
		item.Platform,
		item.Content,
		item.ContentURL,
		item.PostConfig,
		item.ScheduledFor,
		models.QueueStatusPending,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *postingQueueRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PostingQueueItem, error) {
	query := `
		SELECT id, user_id, account_id, platform, content, content_url, post_config,
			scheduled_for, status, attempts, error_message, platform_post_id, platform_post_url, created_at, updated_at
		FROM posting_queue
		WHERE status = $1 AND scheduled_for <= $2
		ORDER BY scheduled_for ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, models.QueueStatusPending, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanQueueItems(rows)
}

func (r *postingQueueRepository) Claim(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE posting_queue
		SET status = $1,
			attempts = attempts + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, models.QueueStatusProcessing, id, models.QueueStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postingQueueRepository) MarkPosted(ctx context.Context, id int64, platformPostID, platformPostURL string) error {
	query := `
		UPDATE posting_queue
		SET status = $1,
			platform_post_id = $2,
			platform_post_url = $3,
			error_message = '',
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.QueueStatusPosted, platformPostID, platformPostURL, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postingQueueRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `
		UPDATE posting_queue
		SET status = $1,
			error_message = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, models.QueueStatusFailed, errorMessage, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postingQueueRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error) {
	query := `
		SELECT id, user_id, account_id, platform, content, content_url, post_config,
			scheduled_for, status, attempts, error_message, platform_post_id, platform_post_url, created_at, updated_at
		FROM posting_queue
		WHERE user_id = $1
		ORDER BY scheduled_for DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanQueueItems(rows)
}

func scanQueueItems(rows *sql.Rows) ([]*models.PostingQueueItem, error) {
	var items []*models.PostingQueueItem
	for rows.Next() {
		var item models.PostingQueueItem
		err := rows.Scan(
			&item.ID, &item.UserID, &item.AccountID, &item.Platform, &item.Content, &item.ContentURL, &item.PostConfig,
			&item.ScheduledFor, &item.Status, &item.Attempts, &item.ErrorMessage, &item.PlatformPostID, &item.PlatformPostURL,
			&item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *postingQueueRepository) CheckByUserID(ctx context.Context, itemID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posting_queue WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, itemID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *postingQueueRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posting_queue WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
