package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func AnalyticsRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	analytics := api.Group("/analytics", protected, middleware.StaffRequired())
	analytics.Get("/system", h.SystemAnalytics)
	analytics.Get("/leaderboard", h.Leaderboard)
	analytics.Get("/tutors/:tutorId", h.TutorAnalytics)
}
