package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/anjiri1684/quiz_platform/media"
	"github.com/anjiri1684/quiz_platform/middleware"
	"github.com/anjiri1684/quiz_platform/reports"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler adapts HTTP requests onto the services.
type Handler struct {
	Accounts   *services.AccountService
	Questions  *services.QuestionService
	Attempts   *services.AttemptService
	Feedback   *services.FeedbackService
	Analytics  *services.AnalyticsService
	Dashboards *services.DashboardService
	Media      *media.Client
	Reports    reports.Renderer
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": data})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &services.Error{Kind: services.KindValidation, Message: "Cannot parse JSON", Err: err}
	}
	return nil
}

// idParam parses a uuid path parameter; "me" resolves to the caller.
func idParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Params(name)
	if raw == "me" {
		return middleware.CurrentPrincipal(c).UserID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &services.Error{Kind: services.KindValidation, Message: "invalid " + name}
	}
	return id, nil
}

func uintParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, &services.Error{Kind: services.KindValidation, Message: "invalid " + name}
	}
	return uint(id), nil
}

func optionalUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &services.Error{Kind: services.KindValidation, Message: "invalid " + key}
	}
	id := uint(v)
	return &id, nil
}

func optionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &services.Error{Kind: services.KindValidation, Message: "invalid " + key}
	}
	return &v, nil
}

var kindStatus = map[services.Kind]int{
	services.KindNotFound:         fiber.StatusNotFound,
	services.KindValidation:       fiber.StatusBadRequest,
	services.KindDuplicateAnswer:  fiber.StatusConflict,
	services.KindAlreadySubmitted: fiber.StatusConflict,
	services.KindUpstream:         fiber.StatusBadGateway,
	services.KindTimeout:          fiber.StatusGatewayTimeout,
	services.KindForbidden:        fiber.StatusForbidden,
	services.KindUnauthorized:     fiber.StatusUnauthorized,
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return services.KindValidation.String()
	case fiber.StatusUnauthorized:
		return services.KindUnauthorized.String()
	case fiber.StatusForbidden:
		return services.KindForbidden.String()
	case fiber.StatusNotFound:
		return services.KindNotFound.String()
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	}
	return "internal"
}

// ErrorHandler renders every error in the uniform failure shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal"
	message := "Internal Server Error"

	var se *services.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &se):
		status, code, message = kindStatus[se.Kind], se.Kind.String(), se.Error()
	case errors.As(err, &fe):
		status, code, message = fe.Code, statusCode(fe.Code), fe.Message
	}
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}
