package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

// AttachUser resolves an Authorization bearer token into a user and puts
// it in locals for handlers and the logger. Anonymous requests pass
// through untouched.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearerToken(c); tok != "" {
			if u, err := auth.UserFromToken(tok); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return jsonError(c, fiber.StatusUnauthorized, "authorization required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil || u == nil {
			applog.Security(c, "auth.token.invalid", nil)
			return jsonError(c, fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return jsonError(c, fiber.StatusUnauthorized, "authorization required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil || !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return jsonError(c, fiber.StatusForbidden, "admin access required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
