package job

import (
	"context"
	"testing"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPipelineRepo struct {
	pipelines map[int64]*models.Pipeline
}

func (m *memPipelineRepo) Create(ctx context.Context, pipeline *models.Pipeline, steps []*models.PipelineStep) (int64, error) {
	return 0, nil
}

func (m *memPipelineRepo) GetByID(ctx context.Context, id int64) (*models.Pipeline, error) {
	return m.pipelines[id], nil
}

func (m *memPipelineRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Pipeline, error) {
	return nil, nil
}

func (m *memPipelineRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Pipeline, error) {
	var out []*models.Pipeline
	for _, p := range m.pipelines {
		if p.Status == models.PipelineStatusActive && !p.NextRunAt.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPipelineRepo) ListSteps(ctx context.Context, pipelineID int64) ([]*models.PipelineStep, error) {
	return nil, nil
}

func (m *memPipelineRepo) RecordRun(ctx context.Context, pipelineID int64, success bool, nextRunAt time.Time) error {
	return nil
}

func (m *memPipelineRepo) UpdateSchedule(ctx context.Context, pipelineID int64, schedule string, nextRunAt time.Time) error {
	return nil
}

func (m *memPipelineRepo) SetStatus(ctx context.Context, pipelineID int64, status string) error {
	return nil
}

func (m *memPipelineRepo) CheckByUserID(ctx context.Context, pipelineID, userID int64) (bool, error) {
	return false, nil
}

func (m *memPipelineRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

type reschedule struct {
	id      int64
	nextRun time.Time
	lastRun time.Time
}

type memScheduledJobRepo struct {
	jobs        []*models.ScheduledJob
	rescheduled []reschedule
}

func (m *memScheduledJobRepo) Create(ctx context.Context, job *models.ScheduledJob) (int64, error) {
	return 0, nil
}

func (m *memScheduledJobRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledJob, error) {
	var out []*models.ScheduledJob
	for _, j := range m.jobs {
		if j.IsActive && !j.NextRun.After(now) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memScheduledJobRepo) Reschedule(ctx context.Context, id int64, nextRun, lastRun time.Time) error {
	m.rescheduled = append(m.rescheduled, reschedule{id: id, nextRun: nextRun, lastRun: lastRun})
	return nil
}

func (m *memScheduledJobRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return nil
}

type tzSettings struct {
	loc *time.Location
}

func (s *tzSettings) GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error) {
	return &models.Settings{UserID: userID}, nil
}

func (s *tzSettings) UpdateSettings(ctx context.Context, userID int64, tone, timezone string) error {
	return nil
}

func (s *tzSettings) Location(ctx context.Context, userID int64) *time.Location {
	return s.loc
}

func TestScheduledJobRescheduledInOwnerTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	pipelineRepo := &memPipelineRepo{pipelines: map[int64]*models.Pipeline{
		1: {ID: 1, UserID: 7},
	}}
	jobRepo := &memScheduledJobRepo{jobs: []*models.ScheduledJob{
		{ID: 3, PipelineID: 1, Schedule: "0 9 * * *", NextRun: time.Now().Add(-time.Minute), IsActive: true},
	}}

	// The enqueue fails against an unreachable broker; the job is
	// still advanced so a broker outage cannot wedge the schedule.
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:1"})
	defer client.Close()

	dueCheck := NewDueCheckJob(pipelineRepo, jobRepo, &tzSettings{loc: loc}, client)
	dueCheck.CheckDuePipelines()

	require.Len(t, jobRepo.rescheduled, 1)
	next := jobRepo.rescheduled[0].nextRun
	assert.Equal(t, 9, next.In(loc).Hour())
	assert.Equal(t, 0, next.In(loc).Minute())
	assert.True(t, next.After(time.Now().Add(-time.Minute)))
	assert.False(t, jobRepo.rescheduled[0].lastRun.IsZero())
}

func TestDueCheckSkipsFutureJobs(t *testing.T) {
	pipelineRepo := &memPipelineRepo{pipelines: map[int64]*models.Pipeline{}}
	jobRepo := &memScheduledJobRepo{jobs: []*models.ScheduledJob{
		{ID: 4, PipelineID: 1, Schedule: "0 9 * * *", NextRun: time.Now().Add(time.Hour), IsActive: true},
	}}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:1"})
	defer client.Close()

	dueCheck := NewDueCheckJob(pipelineRepo, jobRepo, &tzSettings{loc: time.UTC}, client)
	dueCheck.CheckDuePipelines()

	assert.Empty(t, jobRepo.rescheduled)
}
