package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	TimeZone       string

	RabbitMQURL      string
	RabbitMQExchange string

	CloudinaryURL string
	MediaFolder   string

	ReportTimeout time.Duration

	SuperTutorEmail    string
	SuperTutorPassword string
	SuperTutorFullName string

	AllowOrigins string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return &Config{
		Port:               getenvDefault("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getDurationDefault("TOKEN_TTL", 72*time.Hour),
		RequestTimeout:     getDurationDefault("REQUEST_TIMEOUT", 10*time.Second),
		TimeZone:           getenvDefault("APP_TIMEZONE", "UTC"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:   getenvDefault("RABBITMQ_EXCHANGE", "quiz.events"),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
		MediaFolder:        getenvDefault("MEDIA_FOLDER", "quiz_question_media"),
		ReportTimeout:      getDurationDefault("REPORT_TIMEOUT", 30*time.Second),
		SuperTutorEmail:    strings.TrimSpace(os.Getenv("SUPER_TUTOR_EMAIL")),
		SuperTutorPassword: os.Getenv("SUPER_TUTOR_PASSWORD"),
		SuperTutorFullName: getenvDefault("SUPER_TUTOR_FULL_NAME", "Super Tutor"),
		AllowOrigins:       getenvDefault("ALLOW_ORIGINS", "*"),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() []string {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ config: %s=%q is not a valid duration, using %s", k, v, fallback)
		return fallback
	}
	return d
}
