package handlers

import (
	"errors"

	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type GenerateHandler struct {
	s service.GenerationService
}

func NewGenerateHandler(service service.GenerationService) *GenerateHandler {
	return &GenerateHandler{s: service}
}

func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.GenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	resp, err := h.s.Generate(c.Context(), userId, req)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCredits) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "Insufficient credits",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(resp)
}

func (h *GenerateHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.s.ListProviders(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list providers",
		})
	}

	return c.JSON(providers)
}
