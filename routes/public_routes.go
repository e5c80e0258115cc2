package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(api fiber.Router, h *handlers.Handler) {
	api.Get("/categories", h.ListCategories)
	api.Get("/difficulty-levels", h.ListDifficultyLevels)
}
