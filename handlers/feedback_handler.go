package handlers

import (
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateFeedback(c *fiber.Ctx) error {
	attemptID, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	var req services.FeedbackInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	fb, err := h.Feedback.CreateFeedback(c.UserContext(), middleware.CurrentPrincipal(c), attemptID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, fb)
}

func (h *Handler) CreateStudentFeedback(c *fiber.Ctx) error {
	attemptID, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	var req services.StudentFeedbackInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	fb, err := h.Feedback.CreateStudentFeedback(c.UserContext(), middleware.CurrentPrincipal(c), attemptID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, fb)
}

func (h *Handler) ListAttemptFeedback(c *fiber.Ctx) error {
	attemptID, err := idParam(c, "attemptId")
	if err != nil {
		return err
	}
	fb, err := h.Feedback.ListFeedbackForAttempt(c.UserContext(), middleware.CurrentPrincipal(c), attemptID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fb)
}

func (h *Handler) UpdateFeedback(c *fiber.Ctx) error {
	id, err := idParam(c, "feedbackId")
	if err != nil {
		return err
	}
	var req services.FeedbackInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	fb, err := h.Feedback.UpdateFeedback(c.UserContext(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fb)
}

func (h *Handler) DeleteFeedback(c *fiber.Ctx) error {
	id, err := idParam(c, "feedbackId")
	if err != nil {
		return err
	}
	if err := h.Feedback.DeleteFeedback(c.UserContext(), middleware.CurrentPrincipal(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) UpdateStudentFeedback(c *fiber.Ctx) error {
	id, err := idParam(c, "feedbackId")
	if err != nil {
		return err
	}
	var req services.FeedbackInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	fb, err := h.Feedback.UpdateStudentFeedback(c.UserContext(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fb)
}

func (h *Handler) DeleteStudentFeedback(c *fiber.Ctx) error {
	id, err := idParam(c, "feedbackId")
	if err != nil {
		return err
	}
	if err := h.Feedback.DeleteStudentFeedback(c.UserContext(), middleware.CurrentPrincipal(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
