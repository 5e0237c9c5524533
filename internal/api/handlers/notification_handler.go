package handlers

import (
	"github.com/contentforge/backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	s service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{s: service}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userId := GetUserID(c)

	notifications, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list notifications",
		})
	}

	return c.JSON(notifications)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userId := GetUserID(c)
	notificationId := c.QueryInt("id", 0)

	err := h.s.MarkRead(c.Context(), userId, int64(notificationId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to mark notification as read",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
