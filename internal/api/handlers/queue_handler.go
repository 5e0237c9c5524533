package handlers

import (
	"github.com/contentforge/backend/internal/queue"
	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

type QueueHandler struct {
	s      service.PostingService
	client *asynq.Client
}

func NewQueueHandler(service service.PostingService, client *asynq.Client) *QueueHandler {
	return &QueueHandler{s: service, client: client}
}

func (h *QueueHandler) CreateQueueItem(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var qc transfer.QueueItemCreation
	if err := c.BodyParser(&qc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	itemID, err := h.s.Enqueue(c.Context(), userId, &qc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"item_id": itemID})
}

func (h *QueueHandler) ListQueue(c *fiber.Ctx) error {
	userId := GetUserID(c)

	items, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posting queue",
		})
	}

	return c.JSON(items)
}

func (h *QueueHandler) RemoveQueueItem(c *fiber.Ctx) error {
	userId := GetUserID(c)
	itemId := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userId, int64(itemId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to remove queue item",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// DrainQueue enqueues a drain task; operators use it to flush due
// items without waiting for the next cron tick.
func (h *QueueHandler) DrainQueue(c *fiber.Ctx) error {
	userId := GetUserID(c)

	err := queue.EnqueueDrain(h.client, queue.DrainQueuePayload{RequestedBy: userId})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to schedule queue drain",
		})
	}

	return c.SendStatus(fiber.StatusAccepted)
}
