package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandleDrainQueueTask(ctx context.Context, task *asynq.Task) error {
	var payload DrainQueuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := j.ps.DrainDue(ctx); err != nil {
		log.Printf("Error draining posting queue: %v", err)
		return err
	}

	return nil
}

func (j *Queue) HandleRunPipelineTask(ctx context.Context, task *asynq.Task) error {
	var payload RunPipelinePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	// A failed run is reported, never handed back for retry: a rerun
	// would charge the user again and bump the run counters twice.
	if err := j.pl.Run(ctx, payload.PipelineID); err != nil {
		log.Printf("Error running pipeline %d: %v", payload.PipelineID, err)
	}

	return nil
}
