package queue

import (
	"github.com/contentforge/backend/internal/service"
)

type Queue struct {
	ps service.PostingService
	pl service.PipelineService
}

func NewQueue(ps service.PostingService, pl service.PipelineService) *Queue {
	return &Queue{
		ps: ps,
		pl: pl,
	}
}

const (
	TaskTypeDrainQueue  = "posting:drain"
	TaskTypeRunPipeline = "pipeline:run"
)

type DrainQueuePayload struct {
	RequestedBy int64 `json:"requested_by"`
}

type RunPipelinePayload struct {
	PipelineID int64 `json:"pipeline_id"`
}
