package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const secret = "middleware-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func testApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var se *services.Error
			if errors.As(err, &se) {
				switch se.Kind {
				case services.KindForbidden:
					return c.SendStatus(fiber.StatusForbidden)
				case services.KindUnauthorized:
					return c.SendStatus(fiber.StatusUnauthorized)
				}
			}
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.SendStatus(fe.Code)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/me", Protected(secret), func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		return c.SendString(p.UserID.String() + " " + p.Role)
	})
	app.Get("/staff", Protected(secret), StaffRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/super", Protected(secret), SuperTutorRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func status(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func claimsFor(id uuid.UUID, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": id.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestProtected(t *testing.T) {
	app := testApp()
	id := uuid.New()

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", fiber.StatusBadRequest},
		{"garbage", "abc.def.ghi", fiber.StatusUnauthorized},
		{"wrong key", sign(t, claimsFor(id, models.RoleStudent), "other-secret"), fiber.StatusUnauthorized},
		{"expired", sign(t, jwt.MapClaims{"user_id": id.String(), "role": models.RoleStudent, "exp": time.Now().Add(-time.Minute).Unix()}, secret), fiber.StatusUnauthorized},
		{"unknown role", sign(t, claimsFor(id, "admin"), secret), fiber.StatusUnauthorized},
		{"bad user id", sign(t, jwt.MapClaims{"user_id": "nope", "role": models.RoleStudent, "exp": time.Now().Add(time.Hour).Unix()}, secret), fiber.StatusUnauthorized},
		{"valid", sign(t, claimsFor(id, models.RoleStudent), secret), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(t, app, "/me", tt.token); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoleGuards(t *testing.T) {
	app := testApp()
	student := sign(t, claimsFor(uuid.New(), models.RoleStudent), secret)
	tutor := sign(t, claimsFor(uuid.New(), models.RoleTutor), secret)
	super := sign(t, claimsFor(uuid.New(), models.RoleSuperTutor), secret)

	tests := []struct {
		path  string
		token string
		want  int
	}{
		{"/staff", student, fiber.StatusForbidden},
		{"/staff", tutor, fiber.StatusNoContent},
		{"/staff", super, fiber.StatusNoContent},
		{"/super", tutor, fiber.StatusForbidden},
		{"/super", super, fiber.StatusNoContent},
	}
	for _, tt := range tests {
		if got := status(t, app, tt.path, tt.token); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.path, got, tt.want)
		}
	}
}
