package queue

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

func EnqueueDrain(asynqClient *asynq.Client, payload DrainQueuePayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeDrainQueue, taskPayload)

	_, err = asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	return nil
}

func EnqueuePipelineRun(asynqClient *asynq.Client, payload RunPipelinePayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeRunPipeline, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(0))
	if err != nil {
		return err
	}

	log.Printf("Pipeline run scheduled: %+v", payload)
	return nil
}
