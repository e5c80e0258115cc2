package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/gofiber/fiber/v2"
)

func AttemptRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	attempts := api.Group("/attempts", protected)
	attempts.Post("", middleware.RoleRequired(models.RoleStudent), h.StartAttempt)
	attempts.Get("/:attemptId", h.GetAttempt)
	attempts.Post("/:attemptId/answers", middleware.RoleRequired(models.RoleStudent), h.RecordAnswers)
	attempts.Post("/:attemptId/submit", middleware.RoleRequired(models.RoleStudent), h.SubmitAttempt)
	attempts.Get("/:attemptId/report", h.AttemptReport)
	attempts.Post("/:attemptId/report/archive", h.ArchiveAttemptReport)

	attempts.Get("/:attemptId/feedback", h.ListAttemptFeedback)
	attempts.Post("/:attemptId/feedback", middleware.StaffRequired(), h.CreateFeedback)
	attempts.Post("/:attemptId/student-feedback", middleware.RoleRequired(models.RoleStudent), h.CreateStudentFeedback)

	students := api.Group("/students", protected)
	students.Get("/:studentId/attempts", h.ListStudentAttempts)
	students.Get("/:studentId/progress", h.StudentProgress)
	students.Get("/:studentId/dashboard", h.StudentDashboard)
}
