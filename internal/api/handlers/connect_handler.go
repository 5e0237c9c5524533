package handlers

import (
	"errors"

	"github.com/contentforge/backend/internal/service"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type ConnectHandler struct {
	s service.ConnectService
}

func NewConnectHandler(service service.ConnectService) *ConnectHandler {
	return &ConnectHandler{s: service}
}

func (h *ConnectHandler) AddSocialAccount(c *fiber.Ctx) error {
	userId := GetUserID(c)
	platform := c.Params("platform")

	authURL, err := h.s.GetAuthURL(c.Context(), platform, userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Redirect(authURL)
}

func (h *ConnectHandler) CallbackHandler(c *fiber.Ctx) error {
	userId := GetUserID(c)

	req := transfer.ConnectRequest{
		Platform: c.Params("platform"),
		Code:     c.Query("code"),
		State:    c.Query("state"),
	}

	err := h.s.Callback(c.Context(), userId, req)
	if err != nil {
		if errors.Is(err, service.ErrStateMismatch) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "State does not match the logged in user",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ConnectHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userId := GetUserID(c)

	accounts, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list social accounts",
		})
	}

	return c.JSON(accounts)
}

func (h *ConnectHandler) DisconnectSocialAccount(c *fiber.Ctx) error {
	userId := GetUserID(c)
	accountId := c.QueryInt("id", 0)

	err := h.s.Disconnect(c.Context(), userId, int64(accountId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to disconnect account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
