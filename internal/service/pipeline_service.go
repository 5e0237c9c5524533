package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/contentforge/backend/pkg/cronutil"
)

type PipelineService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PipelineCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Pipeline, error)
	PipelineInfo(ctx context.Context, userID, pipelineID int64) (*models.Pipeline, []*models.PipelineStep, error)
	History(ctx context.Context, userID, pipelineID int64) ([]*models.PipelineHistory, error)
	SetStatus(ctx context.Context, userID, pipelineID int64, status string) error
	UpdateSchedule(ctx context.Context, userID, pipelineID int64, schedule string) error
	Remove(ctx context.Context, userID, pipelineID int64) error
	// Run executes the pipeline's steps in order, stopping at the
	// first failure. History rows for the whole run are flushed in
	// one batch at the end, then the run counters are updated.
	Run(ctx context.Context, pipelineID int64) error
}

type pipelineService struct {
	p  repository.PipelineRepository
	ph repository.PipelineHistoryRepository
	gs GenerationService
	ps PostingService
	ss SettingsService
}

func NewPipelineService(
	p repository.PipelineRepository,
	ph repository.PipelineHistoryRepository,
	gs GenerationService,
	ps PostingService,
	ss SettingsService) PipelineService {
	return &pipelineService{
		p:  p,
		ph: ph,
		gs: gs,
		ps: ps,
		ss: ss,
	}
}

func (s *pipelineService) Create(ctx context.Context, userID int64, pc *transfer.PipelineCreation) (int64, error) {
	if pc == nil {
		err := errors.New("pipeline creation data is nil")
		slog.Error(err.Error())
		return 0, err
	}

	if pc.Name == "" {
		err := errors.New("Pipeline name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	if len(pc.Steps) == 0 {
		err := errors.New("Pipeline must have at least one step")
		slog.Info(err.Error())
		return 0, err
	}

	for _, step := range pc.Steps {
		switch step.StepType {
		case models.StepTypeGenerateContent, models.StepTypePostToPlatform, models.StepTypeSchedulePipeline:
		default:
			err := fmt.Errorf("Unknown step type: %s", step.StepType)
			slog.Info(err.Error())
			return 0, err
		}
	}

	status := pc.Status
	if status == "" {
		status = models.PipelineStatusDraft
	}

	loc := s.ss.Location(ctx, userID)

	pipeline := &models.Pipeline{
		UserID:         userID,
		Name:           pc.Name,
		ContentType:    pc.ContentType,
		PromptTemplate: pc.PromptTemplate,
		GenConfig:      pc.GenConfig,
		Schedule:       pc.Schedule,
		Status:         status,
	}

	if pc.Schedule != "" && status == models.PipelineStatusActive {
		pipeline.NextRunAt = cronutil.NextRunIn(pc.Schedule, time.Now(), loc)
	}

	steps := make([]*models.PipelineStep, 0, len(pc.Steps))
	for i, sc := range pc.Steps {
		order := sc.StepOrder
		if order == 0 {
			order = i + 1
		}
		steps = append(steps, &models.PipelineStep{
			StepOrder: order,
			StepType:  sc.StepType,
			Config:    sc.Config,
		})
	}

	return s.p.Create(ctx, pipeline, steps)
}

func (s *pipelineService) List(ctx context.Context, userID int64) ([]*models.Pipeline, error) {
	pipelines, err := s.p.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting pipelines")
	}
	return pipelines, nil
}

func (s *pipelineService) PipelineInfo(ctx context.Context, userID, pipelineID int64) (*models.Pipeline, []*models.PipelineStep, error) {
	if err := s.checkOwner(ctx, userID, pipelineID); err != nil {
		return nil, nil, err
	}

	pipeline, err := s.p.GetByID(ctx, pipelineID)
	if err != nil {
		return nil, nil, fmt.Errorf("Error getting pipeline info")
	}
	if pipeline == nil {
		return nil, nil, errors.New("Pipeline doesn't exist")
	}

	steps, err := s.p.ListSteps(ctx, pipelineID)
	if err != nil {
		return nil, nil, fmt.Errorf("Error getting pipeline steps")
	}

	return pipeline, steps, nil
}

func (s *pipelineService) History(ctx context.Context, userID, pipelineID int64) ([]*models.PipelineHistory, error) {
	if err := s.checkOwner(ctx, userID, pipelineID); err != nil {
		return nil, err
	}
	return s.ph.ListByPipelineID(ctx, pipelineID, 100)
}

func (s *pipelineService) SetStatus(ctx context.Context, userID, pipelineID int64, status string) error {
	switch status {
	case models.PipelineStatusActive, models.PipelineStatusPaused, models.PipelineStatusDraft:
	default:
		err := fmt.Errorf("Unknown pipeline status: %s", status)
		slog.Info(err.Error())
		return err
	}

	if err := s.checkOwner(ctx, userID, pipelineID); err != nil {
		return err
	}

	if status == models.PipelineStatusActive {
		pipeline, err := s.p.GetByID(ctx, pipelineID)
		if err != nil {
			return err
		}
		if pipeline == nil {
			err := errors.New("Pipeline doesn't exist")
			slog.Info(err.Error())
			return err
		}
		if pipeline.Schedule != "" {
			loc := s.ss.Location(ctx, userID)
			next := cronutil.NextRunIn(pipeline.Schedule, time.Now(), loc)
			if err := s.p.UpdateSchedule(ctx, pipelineID, pipeline.Schedule, next); err != nil {
				return err
			}
		}
	}

	return s.p.SetStatus(ctx, pipelineID, status)
}

func (s *pipelineService) UpdateSchedule(ctx context.Context, userID, pipelineID int64, schedule string) error {
	if err := cronutil.Validate(schedule); err != nil {
		slog.Info(err.Error())
		return errors.New("Schedule is not a valid cron expression")
	}

	if err := s.checkOwner(ctx, userID, pipelineID); err != nil {
		return err
	}

	loc := s.ss.Location(ctx, userID)
	next := cronutil.NextRunIn(schedule, time.Now(), loc)

	return s.p.UpdateSchedule(ctx, pipelineID, schedule, next)
}

func (s *pipelineService) Remove(ctx context.Context, userID, pipelineID int64) error {
	if err := s.checkOwner(ctx, userID, pipelineID); err != nil {
		return err
	}
	return s.p.Remove(ctx, pipelineID)
}

func (s *pipelineService) checkOwner(ctx context.Context, userID, pipelineID int64) error {
	isValid, err := s.p.CheckByUserID(ctx, pipelineID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Pipeline doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return nil
}

// runState carries the output of a generate-content step to the
// post-to-platform steps later in the same run.
type runState struct {
	content    string
	contentURL string
}

func (s *pipelineService) Run(ctx context.Context, pipelineID int64) error {
	pipeline, err := s.p.GetByID(ctx, pipelineID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if pipeline == nil {
		// Deleted between enqueue and execution.
		err := fmt.Errorf("Pipeline %d doesn't exist", pipelineID)
		slog.Info(err.Error())
		return err
	}

	steps, err := s.p.ListSteps(ctx, pipelineID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	var (
		state   runState
		history []*models.PipelineHistory
		failed  bool
	)

	for _, step := range steps {
		startedAt := time.Now()
		result, err := s.runStep(ctx, pipeline, step, &state)

		entry := &models.PipelineHistory{
			PipelineID: pipelineID,
			StepID:     step.ID,
			Status:     models.RunStatusCompleted,
			Result:     result,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
		}

		if err != nil {
			entry.Status = models.RunStatusFailed
			entry.ErrorMsg = err.Error()
			history = append(history, entry)
			failed = true
			break
		}

		history = append(history, entry)
	}

	if err := s.ph.CreateBatch(ctx, history); err != nil {
		slog.Info(err.Error())
	}

	loc := s.ss.Location(ctx, pipeline.UserID)
	nextRun := cronutil.NextRunIn(pipeline.Schedule, time.Now(), loc)

	if err := s.p.RecordRun(ctx, pipelineID, !failed, nextRun); err != nil {
		slog.Info(err.Error())
		return err
	}

	if failed {
		return fmt.Errorf("pipeline %d run failed", pipelineID)
	}
	return nil
}

func (s *pipelineService) runStep(ctx context.Context, pipeline *models.Pipeline, step *models.PipelineStep, state *runState) (string, error) {
	switch step.StepType {
	case models.StepTypeGenerateContent:
		return s.runGenerateStep(ctx, pipeline, step, state)
	case models.StepTypePostToPlatform:
		return s.runPostStep(ctx, pipeline, step, state)
	case models.StepTypeSchedulePipeline:
		return s.runScheduleStep(ctx, pipeline, step)
	default:
		return "", fmt.Errorf("unknown step type: %s", step.StepType)
	}
}

func (s *pipelineService) runGenerateStep(ctx context.Context, pipeline *models.Pipeline, step *models.PipelineStep, state *runState) (string, error) {
	var cfg transfer.GenerateStepConfig
	if step.Config != "" {
		if err := json.Unmarshal([]byte(step.Config), &cfg); err != nil {
			return "", fmt.Errorf("step config is not valid: %w", err)
		}
	}

	contentType := cfg.Type
	if contentType == "" {
		contentType = pipeline.ContentType
	}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = pipeline.PromptTemplate
	}

	if cfg.Options == (transfer.GenerationOptions{}) && pipeline.GenConfig != "" {
		if err := json.Unmarshal([]byte(pipeline.GenConfig), &cfg.Options); err != nil {
			slog.Info(err.Error())
		}
	}

	resp, err := s.gs.Generate(ctx, pipeline.UserID, transfer.GenerationRequest{
		Type:    contentType,
		Prompt:  prompt,
		Options: cfg.Options,
	})
	if err != nil {
		return "", err
	}

	if resp.ContentType == models.ContentTypeText {
		state.content = resp.Content
	} else {
		state.contentURL = resp.Content
	}

	result, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func (s *pipelineService) runPostStep(ctx context.Context, pipeline *models.Pipeline, step *models.PipelineStep, state *runState) (string, error) {
	var cfg transfer.PostStepConfig
	if err := json.Unmarshal([]byte(step.Config), &cfg); err != nil {
		return "", fmt.Errorf("step config is not valid: %w", err)
	}

	content := cfg.Content
	contentURL := cfg.ContentURL
	if cfg.UseGenerated {
		if state.content == "" && state.contentURL == "" {
			return "", errors.New("no generated content available for this run")
		}
		content = state.content
		contentURL = state.contentURL
	}

	result := s.ps.PostNow(ctx, pipeline.UserID, cfg.AccountID, content, contentURL, cfg.PostConfig)
	if !result.Success {
		return "", errors.New(result.Error)
	}

	blob, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

func (s *pipelineService) runScheduleStep(ctx context.Context, pipeline *models.Pipeline, step *models.PipelineStep) (string, error) {
	var cfg transfer.ScheduleStepConfig
	if err := json.Unmarshal([]byte(step.Config), &cfg); err != nil {
		return "", fmt.Errorf("step config is not valid: %w", err)
	}

	if err := cronutil.Validate(cfg.Schedule); err != nil {
		return "", fmt.Errorf("schedule is not a valid cron expression: %w", err)
	}

	targetID := cfg.PipelineID
	if targetID == 0 {
		targetID = pipeline.ID
	}

	// Only pipelines of the same owner can be rescheduled by a step.
	isValid, err := s.p.CheckByUserID(ctx, targetID, pipeline.UserID)
	if err != nil {
		return "", err
	}
	if !isValid {
		return "", errors.New("pipeline doesn't exist")
	}

	loc := s.ss.Location(ctx, pipeline.UserID)
	next := cronutil.NextRunIn(cfg.Schedule, time.Now(), loc)

	if err := s.p.UpdateSchedule(ctx, targetID, cfg.Schedule, next); err != nil {
		return "", err
	}

	return fmt.Sprintf(`{"pipeline_id":%d,"schedule":%q,"next_run_at":%q}`, targetID, cfg.Schedule, next.Format(time.RFC3339)), nil
}
