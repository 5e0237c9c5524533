package models

import "time"

const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusPosted     = "posted"
	QueueStatusFailed     = "failed"
)

type PostingQueueItem struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	AccountID       int64     `db:"account_id" json:"account_id"`
	Platform        string    `db:"platform" json:"platform"`
	Content         string    `db:"content" json:"content"`
	ContentURL      string    `db:"content_url" json:"content_url"`
	PostConfig      string    `db:"post_config" json:"post_config"`
	ScheduledFor    time.Time `db:"scheduled_for" json:"scheduled_for"`
	Status          string    `db:"status" json:"status"`
	Attempts        int       `db:"attempts" json:"attempts"`
	ErrorMessage    string    `db:"error_message" json:"error_message"`
	PlatformPostID  string    `db:"platform_post_id" json:"platform_post_id"`
	PlatformPostURL string    `db:"platform_post_url" json:"platform_post_url"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
