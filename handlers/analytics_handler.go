package handlers

import (
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) StudentProgress(c *fiber.Ctx) error {
	studentID, err := idParam(c, "studentId")
	if err != nil {
		return err
	}
	p, err := h.Analytics.StudentProgress(c.UserContext(), middleware.CurrentPrincipal(c), studentID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, p)
}

func (h *Handler) StudentDashboard(c *fiber.Ctx) error {
	studentID, err := idParam(c, "studentId")
	if err != nil {
		return err
	}
	d, err := h.Dashboards.StudentDashboard(c.UserContext(), middleware.CurrentPrincipal(c), studentID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, d)
}

func (h *Handler) SystemAnalytics(c *fiber.Ctx) error {
	s, err := h.Analytics.SystemAnalytics(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, s)
}

func (h *Handler) Leaderboard(c *fiber.Ctx) error {
	board, err := h.Analytics.Leaderboard(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, board)
}

func (h *Handler) TutorAnalytics(c *fiber.Ctx) error {
	tutorID, err := idParam(c, "tutorId")
	if err != nil {
		return err
	}
	t, err := h.Analytics.TutorAnalytics(c.UserContext(), middleware.CurrentPrincipal(c), tutorID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, t)
}
