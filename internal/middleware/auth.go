package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

// AuthMiddleware handles back-office authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the user is authenticated, redirecting to the login
// flow if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Redirect().To("/auth/login")
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		sess.Set("redirect_after_login", c.Path())
		return c.Redirect().To("/auth/login")
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err != nil {
		sess.Destroy()
		return c.Redirect().To("/auth/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAdmin ensures the authenticated user has the admin role. Must run
// after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
