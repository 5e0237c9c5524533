package handlers

import (
	"errors"

	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type CreditsHandler struct {
	s service.CreditService
}

func NewCreditsHandler(service service.CreditService) *CreditsHandler {
	return &CreditsHandler{s: service}
}

func (h *CreditsHandler) GetOverview(c *fiber.Ctx) error {
	userId := GetUserID(c)

	overview, err := h.s.Overview(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get credit overview",
		})
	}

	return c.JSON(overview)
}

func (h *CreditsHandler) ApplyAction(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var action transfer.CreditAction
	if err := c.BodyParser(&action); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	balance, err := h.s.Apply(c.Context(), userId, action)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Cannot modify another user's credits",
			})
		}
		if errors.Is(err, service.ErrInsufficientCredits) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":   "Insufficient credits",
				"balance": balance,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"balance": balance})
}
