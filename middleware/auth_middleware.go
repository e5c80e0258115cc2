package middleware

import (
	"slices"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Protected verifies the bearer token and stores the caller's principal.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(secret),
		SigningMethod:  "HS256",
		ErrorHandler:   jwtError,
		SuccessHandler: storePrincipal,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing or malformed JWT")
	}
	return &services.Error{Kind: services.KindUnauthorized, Message: "Invalid or expired JWT", Err: err}
}

func storePrincipal(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return services.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return services.ErrUnauthorized
	}
	rawID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil || !models.ValidRole(role) {
		return &services.Error{Kind: services.KindUnauthorized, Message: "Invalid or expired JWT"}
	}

	c.Locals(principalKey, services.Principal{UserID: userID, Role: role})
	return c.Next()
}

// CurrentPrincipal returns the principal set by Protected.
func CurrentPrincipal(c *fiber.Ctx) services.Principal {
	p, _ := c.Locals(principalKey).(services.Principal)
	return p
}

// RoleRequired rejects callers whose role is not listed.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !slices.Contains(roles, CurrentPrincipal(c).Role) {
			return &services.Error{Kind: services.KindForbidden, Message: "Forbidden: insufficient role"}
		}
		return c.Next()
	}
}

func StaffRequired() fiber.Handler {
	return RoleRequired(models.RoleTutor, models.RoleSuperTutor)
}

func SuperTutorRequired() fiber.Handler {
	return RoleRequired(models.RoleSuperTutor)
}
