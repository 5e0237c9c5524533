package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipelineFixture(gs GenerationService, ps PostingService) (PipelineService, *fakePipelineRepo, *fakeHistoryRepo) {
	repo := newFakePipelineRepo()
	historyRepo := &fakeHistoryRepo{}
	s := NewPipelineService(repo, historyRepo, gs, ps, NewSettingsService(newFakeSettingsRepo()))
	return s, repo, historyRepo
}

func seedPipeline(t *testing.T, s PipelineService, userID int64) int64 {
	t.Helper()

	id, err := s.Create(context.Background(), userID, &transfer.PipelineCreation{
		Name:           "daily coffee post",
		ContentType:    models.ContentTypeText,
		PromptTemplate: "write a post about coffee",
		Schedule:       "0 9 * * *",
		Status:         models.PipelineStatusActive,
		Steps: []transfer.StepCreation{
			{StepType: models.StepTypeGenerateContent, Config: `{}`},
			{StepType: models.StepTypePostToPlatform, Config: `{"account_id":1,"platform":"twitter","use_generated":true}`},
		},
	})
	require.NoError(t, err)
	return id
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	gen := &fakeGenerationService{resp: &transfer.GenerationResponse{
		Content:     "fresh coffee thoughts",
		ContentType: models.ContentTypeText,
	}}
	post := &fakePostingService{result: transfer.PostResult{Success: true, PlatformPostID: "tw-9"}}
	s, repo, historyRepo := newPipelineFixture(gen, post)
	id := seedPipeline(t, s, 1)

	require.NoError(t, s.Run(context.Background(), id))

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, post.calls)

	// One batch with one row per executed step.
	require.Len(t, historyRepo.batches, 1)
	require.Len(t, historyRepo.batches[0], 2)
	assert.Equal(t, models.RunStatusCompleted, historyRepo.batches[0][0].Status)
	assert.Equal(t, models.RunStatusCompleted, historyRepo.batches[0][1].Status)

	require.Len(t, repo.runs, 1)
	assert.True(t, repo.runs[0].success)
	assert.Equal(t, 1, repo.pipelines[id].SuccessfulRuns)
}

func TestRunAbortsOnGenerateFailure(t *testing.T) {
	gen := &fakeGenerationService{err: errors.New("provider unavailable")}
	post := &fakePostingService{result: transfer.PostResult{Success: true}}
	s, repo, historyRepo := newPipelineFixture(gen, post)
	id := seedPipeline(t, s, 1)

	err := s.Run(context.Background(), id)
	require.Error(t, err)

	// The post step never ran.
	assert.Zero(t, post.calls)

	require.Len(t, historyRepo.batches, 1)
	require.Len(t, historyRepo.batches[0], 1)
	assert.Equal(t, models.RunStatusFailed, historyRepo.batches[0][0].Status)
	assert.NotEmpty(t, historyRepo.batches[0][0].ErrorMsg)

	require.Len(t, repo.runs, 1)
	assert.False(t, repo.runs[0].success)
	assert.Equal(t, 1, repo.pipelines[id].FailedRuns)
}

func TestRunMissingPipeline(t *testing.T) {
	// A pipeline removed between enqueue and worker pickup must fail
	// the task cleanly instead of dereferencing a nil row.
	gen := &fakeGenerationService{}
	post := &fakePostingService{}
	s, repo, historyRepo := newPipelineFixture(gen, post)

	err := s.Run(context.Background(), 999)
	require.Error(t, err)

	assert.Zero(t, gen.calls)
	assert.Empty(t, historyRepo.batches)
	assert.Empty(t, repo.runs)
}

func TestRunPostStepUsesGeneratedContent(t *testing.T) {
	gen := &fakeGenerationService{resp: &transfer.GenerationResponse{
		Content:     "generated body",
		ContentType: models.ContentTypeText,
	}}
	recorder := &recordingPostingService{result: transfer.PostResult{Success: true}}
	s, _, _ := newPipelineFixture(gen, recorder)
	id := seedPipeline(t, s, 1)

	require.NoError(t, s.Run(context.Background(), id))
	assert.Equal(t, "generated body", recorder.gotContent)
}

func TestRunAdvancesNextRunAt(t *testing.T) {
	gen := &fakeGenerationService{resp: &transfer.GenerationResponse{
		Content:     "x",
		ContentType: models.ContentTypeText,
	}}
	post := &fakePostingService{result: transfer.PostResult{Success: true}}
	s, repo, _ := newPipelineFixture(gen, post)
	id := seedPipeline(t, s, 1)

	require.NoError(t, s.Run(context.Background(), id))

	require.Len(t, repo.runs, 1)
	assert.True(t, repo.runs[0].nextRunAt.After(time.Now()))
}

func TestCreateValidatesSteps(t *testing.T) {
	s, _, _ := newPipelineFixture(&fakeGenerationService{}, &fakePostingService{})

	_, err := s.Create(context.Background(), 1, &transfer.PipelineCreation{
		Name:  "bad",
		Steps: []transfer.StepCreation{{StepType: "teleport"}},
	})
	assert.Error(t, err)

	_, err = s.Create(context.Background(), 1, &transfer.PipelineCreation{
		Name: "empty",
	})
	assert.Error(t, err)

	_, err = s.Create(context.Background(), 1, &transfer.PipelineCreation{
		Steps: []transfer.StepCreation{{StepType: models.StepTypeGenerateContent}},
	})
	assert.Error(t, err)
}

func TestPipelineOwnershipChecks(t *testing.T) {
	s, _, _ := newPipelineFixture(&fakeGenerationService{}, &fakePostingService{})
	id := seedPipeline(t, s, 1)

	_, _, err := s.PipelineInfo(context.Background(), 2, id)
	assert.Error(t, err)

	err = s.Remove(context.Background(), 2, id)
	assert.Error(t, err)

	err = s.SetStatus(context.Background(), 2, id, models.PipelineStatusPaused)
	assert.Error(t, err)
}

func TestUpdateScheduleRejectsBadExpression(t *testing.T) {
	s, _, _ := newPipelineFixture(&fakeGenerationService{}, &fakePostingService{})
	id := seedPipeline(t, s, 1)

	err := s.UpdateSchedule(context.Background(), 1, id, "whenever")
	assert.Error(t, err)

	err = s.UpdateSchedule(context.Background(), 1, id, "*/30 * * * *")
	assert.NoError(t, err)
}

// recordingPostingService captures the content handed to PostNow.
type recordingPostingService struct {
	result     transfer.PostResult
	gotContent string
}

func (r *recordingPostingService) Enqueue(ctx context.Context, userID int64, qc *transfer.QueueItemCreation) (int64, error) {
	return 0, nil
}

func (r *recordingPostingService) List(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error) {
	return nil, nil
}

func (r *recordingPostingService) Remove(ctx context.Context, userID, itemID int64) error {
	return nil
}

func (r *recordingPostingService) DrainDue(ctx context.Context) error {
	return nil
}

func (r *recordingPostingService) PostNow(ctx context.Context, userID, accountID int64, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	r.gotContent = content
	return r.result
}
