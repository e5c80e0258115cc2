package handlers

import (
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.Accounts.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.Accounts.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, session)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.Accounts.Me(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}
