package handlers

import (
	"errors"

	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	s service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{s: service}
}

// StripeWebhook is unauthenticated; the signature header is the only
// trust anchor.
func (h *PaymentHandler) StripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")

	err := h.s.HandleStripeWebhook(c.Context(), c.Body(), signature)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PaymentHandler) VerifyRazorpay(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var v transfer.RazorpayVerification
	if err := c.BodyParser(&v); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err := h.s.VerifyRazorpayPayment(c.Context(), userId, &v)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
