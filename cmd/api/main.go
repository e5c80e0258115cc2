package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	config "github.com/anjiri1684/quiz_platform/configs"
	"github.com/anjiri1684/quiz_platform/database"
	"github.com/anjiri1684/quiz_platform/events"
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/media"
	"github.com/anjiri1684/quiz_platform/reports"
	"github.com/anjiri1684/quiz_platform/routes"
	"github.com/anjiri1684/quiz_platform/services"
)

func main() {
	cfg := config.Load()
	if missing := cfg.Validate(); len(missing) > 0 {
		log.Fatalf("🔥 Missing required configuration: %s", strings.Join(missing, ", "))
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Printf("⚠️ Unknown APP_TIMEZONE %q, using UTC", cfg.TimeZone)
		loc = time.UTC
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("🔥 %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	store := database.NewStore(db)

	publisher, err := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		log.Printf("⚠️ Event publishing disabled: %v", err)
		publisher = events.Noop{}
	}
	defer publisher.Close()

	mediaClient, err := media.New(cfg.CloudinaryURL, cfg.MediaFolder)
	if err != nil {
		log.Printf("⚠️ Media storage disabled: %v", err)
	}

	opts := services.Options{Timeout: cfg.RequestTimeout, Publisher: publisher, Location: loc}
	accounts := services.NewAccountService(store, cfg.JWTSecret, cfg.TokenTTL, opts)
	attempts := services.NewAttemptService(store, opts)
	analytics := services.NewAnalyticsService(store, opts)

	if err := accounts.SeedSuperTutor(context.Background(), cfg.SuperTutorFullName, cfg.SuperTutorEmail, cfg.SuperTutorPassword); err != nil {
		log.Printf("🔥 Failed to seed super tutor: %v", err)
	}

	h := &handlers.Handler{
		Accounts:   accounts,
		Questions:  services.NewQuestionService(store, opts),
		Attempts:   attempts,
		Feedback:   services.NewFeedbackService(store, opts),
		Analytics:  analytics,
		Dashboards: services.NewDashboardService(analytics, attempts, store, analytics, opts),
		Media:      mediaClient,
		Reports:    reports.ChromeRenderer{Timeout: cfg.ReportTimeout},
	}

	app := routes.New(h, routes.Config{
		JWTSecret:    cfg.JWTSecret,
		AllowOrigins: cfg.AllowOrigins,
		TimeZone:     cfg.TimeZone,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("🔥 Server shutdown failed: %v", err)
		}
	}()

	log.Printf("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
