package models

import "time"

// ScheduledJob decouples a pipeline from its cron schedule. next_run
// is advanced after every attempt, success or not, so a failing
// pipeline never wedges the due-check.
type ScheduledJob struct {
	ID         int64     `db:"id" json:"id"`
	PipelineID int64     `db:"pipeline_id" json:"pipeline_id"`
	Schedule   string    `db:"schedule" json:"schedule"`
	NextRun    time.Time `db:"next_run" json:"next_run"`
	LastRun    time.Time `db:"last_run" json:"last_run"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
