package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/contentforge/backend/internal/queue"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/pkg/cronutil"
	"github.com/hibiken/asynq"
)

const (
	pipelineBatchSize     = 10
	scheduledJobBatchSize = 50
)

// DueCheckJob runs every minute. It enqueues a run for every due
// pipeline and scheduled job, then advances next_run_at immediately so
// a slow or failing run never blocks the following tick.
type DueCheckJob struct {
	p      repository.PipelineRepository
	sj     repository.ScheduledJobRepository
	ss     service.SettingsService
	client *asynq.Client
}

func NewDueCheckJob(
	p repository.PipelineRepository,
	sj repository.ScheduledJobRepository,
	ss service.SettingsService,
	client *asynq.Client) *DueCheckJob {
	return &DueCheckJob{
		p:      p,
		sj:     sj,
		ss:     ss,
		client: client,
	}
}

func (c *DueCheckJob) CheckDuePipelines() {
	ctx := context.Background()
	now := time.Now()

	pipelines, err := c.p.ListDue(ctx, now, pipelineBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, p := range pipelines {
		err := queue.EnqueuePipelineRun(c.client, queue.RunPipelinePayload{PipelineID: p.ID}, 0)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		// Advance the schedule now; the run itself records the final
		// outcome. A pipeline stuck on a failing provider still gets
		// its next slot.
		loc := c.ss.Location(ctx, p.UserID)
		next := cronutil.NextRunIn(p.Schedule, now, loc)
		if err := c.p.UpdateSchedule(ctx, p.ID, p.Schedule, next); err != nil {
			slog.Info(err.Error())
		}
	}

	jobs, err := c.sj.ListDue(ctx, now, scheduledJobBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, j := range jobs {
		err := queue.EnqueuePipelineRun(c.client, queue.RunPipelinePayload{PipelineID: j.PipelineID}, 0)
		if err != nil {
			slog.Info(err.Error())
		}

		next := cronutil.NextRunIn(j.Schedule, now, c.jobLocation(ctx, j.PipelineID))
		if err := c.sj.Reschedule(ctx, j.ID, next, now); err != nil {
			slog.Info(err.Error())
		}
	}
}

// jobLocation resolves the owning user's timezone through the
// pipeline the job points at. UTC when the pipeline is gone.
func (c *DueCheckJob) jobLocation(ctx context.Context, pipelineID int64) *time.Location {
	pipeline, err := c.p.GetByID(ctx, pipelineID)
	if err != nil || pipeline == nil {
		return time.UTC
	}
	return c.ss.Location(ctx, pipeline.UserID)
}
