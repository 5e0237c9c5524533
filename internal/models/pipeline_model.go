package models

import "time"

const (
	PipelineStatusActive = "active"
	PipelineStatusPaused = "paused"
	PipelineStatusDraft  = "draft"
)

const (
	StepTypeGenerateContent  = "generate-content"
	StepTypePostToPlatform   = "post-to-platform"
	StepTypeSchedulePipeline = "schedule-pipeline"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

type Pipeline struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Name           string    `db:"name" json:"name"`
	ContentType    string    `db:"content_type" json:"content_type"`
	PromptTemplate string    `db:"prompt_template" json:"prompt_template"`
	GenConfig      string    `db:"gen_config" json:"gen_config"`
	Schedule       string    `db:"schedule" json:"schedule"`
	NextRunAt      time.Time `db:"next_run_at" json:"next_run_at"`
	LastRunAt      time.Time `db:"last_run_at" json:"last_run_at"`
	TotalRuns      int       `db:"total_runs" json:"total_runs"`
	SuccessfulRuns int       `db:"successful_runs" json:"successful_runs"`
	FailedRuns     int       `db:"failed_runs" json:"failed_runs"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PipelineStep is read-only at execution time; edits happen through
// the pipeline CRUD endpoints only.
type PipelineStep struct {
	ID         int64     `db:"id" json:"id"`
	PipelineID int64     `db:"pipeline_id" json:"pipeline_id"`
	StepOrder  int       `db:"step_order" json:"step_order"`
	StepType   string    `db:"step_type" json:"step_type"`
	Config     string    `db:"config" json:"config"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PipelineHistory is append-only; one row per step execution attempt.
type PipelineHistory struct {
	ID         int64     `db:"id" json:"id"`
	PipelineID int64     `db:"pipeline_id" json:"pipeline_id"`
	StepID     int64     `db:"step_id" json:"step_id"`
	Status     string    `db:"status" json:"status"`
	Result     string    `db:"result" json:"result"`
	ErrorMsg   string    `db:"error_message" json:"error_message"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}
