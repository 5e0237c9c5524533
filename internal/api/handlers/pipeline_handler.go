package handlers

import (
	"github.com/contentforge/backend/internal/queue"
	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

type PipelineHandler struct {
	s      service.PipelineService
	client *asynq.Client
}

func NewPipelineHandler(service service.PipelineService, client *asynq.Client) *PipelineHandler {
	return &PipelineHandler{s: service, client: client}
}

func (h *PipelineHandler) CreatePipeline(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var pc transfer.PipelineCreation
	if err := c.BodyParser(&pc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	pipelineID, err := h.s.Create(c.Context(), userId, &pc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"pipeline_id": pipelineID})
}

func (h *PipelineHandler) ListPipelines(c *fiber.Ctx) error {
	userId := GetUserID(c)

	pipelines, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list pipelines",
		})
	}

	return c.JSON(pipelines)
}

func (h *PipelineHandler) PipelineInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)
	pipelineId := c.QueryInt("id", 0)

	pipeline, steps, err := h.s.PipelineInfo(c.Context(), userId, int64(pipelineId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"pipeline": pipeline,
		"steps":    steps,
	})
}

func (h *PipelineHandler) PipelineHistory(c *fiber.Ctx) error {
	userId := GetUserID(c)
	pipelineId := c.QueryInt("id", 0)

	history, err := h.s.History(c.Context(), userId, int64(pipelineId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(history)
}

func (h *PipelineHandler) SetStatus(c *fiber.Ctx) error {
	userId := GetUserID(c)
	pipelineId := c.QueryInt("id", 0)
	status := c.Query("status")

	err := h.s.SetStatus(c.Context(), userId, int64(pipelineId), status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PipelineHandler) UpdateSchedule(c *fiber.Ctx) error {
	userId := GetUserID(c)
	pipelineId := c.QueryInt("id", 0)
	schedule := c.Query("schedule")

	err := h.s.UpdateSchedule(c.Context(), userId, int64(pipelineId), schedule)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// RunPipeline triggers an immediate run through the task queue so the
// request returns before the steps finish.
func (h *PipelineHandler) RunPipeline(c *fiber.Ctx) error {
	userId := GetUserID(c)
	pipelineId := c.QueryInt("id", 0)

	// Ownership is checked with the same rule the info endpoint uses.
	if _, _, err := h.s.PipelineInfo(c.Context(), userId, int64(pipelineId)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err := queue.EnqueuePipelineRun(h.client, queue.RunPipelinePayload{PipelineID: int64(pipelineId)}, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to schedule pipeline run",
		})
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *PipelineHandler) RemovePipeline(c *fiber.Ctx) error {
	userId := GetUserID(c)
	pipelineId := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userId, int64(pipelineId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to delete pipeline",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
