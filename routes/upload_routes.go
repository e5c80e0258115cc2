package routes

import (
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	uploads := api.Group("/uploads", protected, middleware.StaffRequired())
	uploads.Get("/signature", h.UploadSignature)
}
