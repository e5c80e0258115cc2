package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.SuperTutorRequired())
	admin.Get("/dashboard", h.AdminDashboard)
	admin.Get("/users", h.ListUsers)
	admin.Patch("/users/:userId/role", h.SetUserRole)
	admin.Delete("/attempts/:attemptId", h.DeleteAttempt)

	admin.Post("/categories", h.CreateCategory)
	admin.Put("/categories/:categoryId", h.UpdateCategory)
	admin.Post("/difficulty-levels", h.CreateDifficultyLevel)
	admin.Put("/difficulty-levels/:levelId", h.UpdateDifficultyLevel)
}
