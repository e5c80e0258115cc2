package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/gofiber/fiber/v2"
)

func FeedbackRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	feedback := api.Group("/feedback", protected, middleware.StaffRequired())
	feedback.Put("/:feedbackId", h.UpdateFeedback)
	feedback.Delete("/:feedbackId", h.DeleteFeedback)

	studentFeedback := api.Group("/student-feedback", protected, middleware.RoleRequired(models.RoleStudent))
	studentFeedback.Put("/:feedbackId", h.UpdateStudentFeedback)
	studentFeedback.Delete("/:feedbackId", h.DeleteStudentFeedback)
}
