package middleware

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"reviewgate/internal/models"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{
			name:       "admin passes",
			user:       &models.User{Role: models.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "staff is forbidden",
			user:       &models.User{Role: models.RoleStaff},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing user is unauthorized",
			user:       nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	m := NewAuthMiddleware(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/admin",
				func(c fiber.Ctx) error {
					if tt.user != nil {
						c.Locals("user", tt.user)
					}
					return c.Next()
				},
				m.RequireAdmin,
				func(c fiber.Ctx) error { return c.SendString("ok") },
			)

			req, _ := http.NewRequest("GET", "/admin", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestRequireAuthRedirectsWithoutSession(t *testing.T) {
	m := NewAuthMiddleware(nil)

	app := fiber.New()
	app.Get("/private", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	req, _ := http.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/auth/login" {
		t.Errorf("expected redirect to /auth/login, got %q", loc)
	}
}
