package routes

import (
	"time"

	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/metrics"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Config struct {
	JWTSecret    string
	AllowOrigins string
	TimeZone     string
	// Quiet disables access logs.
	Quiet bool
}

// New builds the app with its middleware stack and every route mounted.
func New(h *handlers.Handler, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Quiz Platform",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	if !cfg.Quiet {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   cfg.TimeZone,
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1")
	protected := middleware.Protected(cfg.JWTSecret)

	PublicRoutes(api, h)
	AuthRoutes(api, h, protected)
	QuestionRoutes(api, h, protected)
	AttemptRoutes(api, h, protected)
	FeedbackRoutes(api, h, protected)
	AnalyticsRoutes(api, h, protected)
	AdminRoutes(api, h, protected)
	UploadRoutes(api, h, protected)

	return app
}
