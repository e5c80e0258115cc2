package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	attemptsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_attempts_started_total",
			Help: "Total number of quiz attempts started",
		},
	)

	attemptsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_submitted_total",
			Help: "Total number of quiz submissions by outcome",
		},
		[]string{"outcome"}, // graded, rejected
	)

	attemptScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score",
			Help:    "Distribution of graded attempt scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	feedbackCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_feedback_created_total",
			Help: "Total number of feedback entries created",
		},
		[]string{"direction"}, // tutor, student
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func AttemptStarted() {
	attemptsStarted.Inc()
}

func AttemptGraded(score int) {
	attemptsSubmitted.WithLabelValues("graded").Inc()
	attemptScores.Observe(float64(score))
}

func SubmissionRejected() {
	attemptsSubmitted.WithLabelValues("rejected").Inc()
}

func FeedbackCreated(direction string) {
	feedbackCreated.WithLabelValues(direction).Inc()
}

// Middleware records the latency of every request under its route pattern.
// Errors are resolved through the app's ErrorHandler first so the recorded
// status is the one the client sees.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// Label values outlive the request, so they must not alias fasthttp buffers.
		requestDuration.
			WithLabelValues(utils.CopyString(c.Method()), utils.CopyString(c.Route().Path), strconv.Itoa(c.Response().StatusCode())).
			Observe(time.Since(start).Seconds())
		return nil
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
