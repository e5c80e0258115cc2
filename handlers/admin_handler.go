package handlers

import (
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Accounts.ListUsers(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, users)
}

func (h *Handler) SetUserRole(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}
	var req roleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.Accounts.SetRole(c.UserContext(), middleware.CurrentPrincipal(c), userID, req.Role)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}

func (h *Handler) DeleteAttempt(c *fiber.Ctx) error {
	id, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	if err := h.Attempts.DeleteAttempt(c.UserContext(), middleware.CurrentPrincipal(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) AdminDashboard(c *fiber.Ctx) error {
	d, err := h.Dashboards.AdminDashboard(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, d)
}
