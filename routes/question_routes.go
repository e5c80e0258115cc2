package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuestionRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	questions := api.Group("/questions", protected, middleware.StaffRequired())
	questions.Post("", h.CreateQuestion)
	questions.Get("", h.ListQuestions)
	questions.Get("/:questionId", h.GetQuestion)
	questions.Put("/:questionId", h.UpdateQuestion)
	questions.Patch("/:questionId/active", h.SetQuestionActive)
	questions.Delete("/:questionId", h.DeleteQuestion)
}
