package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cozyren/catalog-api/internal/domain"
)

// LocalAdmin holds the authenticated admin username.
const LocalAdmin = "admin"

// TokenValidator resolves a bearer token to the admin username.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// AdminMiddleware requires a Bearer token issued for the configured admin.
func AdminMiddleware(v TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "format: Bearer <token>")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "empty token")
		}
		username, err := v.ValidateToken(token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return respondError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "token was not issued for the administrator")
			}
			return respondError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
		}
		c.Locals(LocalAdmin, username)
		return c.Next()
	}
}

// GetAdmin returns the username set by AdminMiddleware.
func GetAdmin(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAdmin).(string)
	return s
}
