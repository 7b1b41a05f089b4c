package server

import (
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"

	"reviewgate/internal/config"
)

func TestDeriveEncryptionKey(t *testing.T) {
	key := deriveEncryptionKey("some-session-secret")

	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		t.Fatalf("key is not valid base64: %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(decoded))
	}

	if deriveEncryptionKey("some-session-secret") != key {
		t.Error("key derivation must be deterministic")
	}
	if deriveEncryptionKey("another-secret") == key {
		t.Error("different secrets must derive different keys")
	}
}

func TestServerMiddlewareStack(t *testing.T) {
	cfg := &config.Config{
		Env:           "development",
		ServerAddr:    ":0",
		BaseURL:       "http://localhost:3000",
		SessionSecret: "test-secret-that-is-long-enough-for-production",
	}
	s := New(cfg)

	s.App.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("pong")
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("expected pong, got %q", body)
	}
}

// The encryptcookie + session stack must survive a client replaying
// encrypted session cookies across requests; this broke in an earlier Fiber
// v3 release candidate (index-out-of-range during cookie decryption).
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	encryptionKey := deriveEncryptionKey("test-secret-that-is-long-enough-for-production")

	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: encryptionKey,
	}))
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/session-set", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("user_sub", "oidc|12345")
		return c.SendString("ok")
	})
	app.Get("/session-get", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		val, _ := sess.Get("user_sub").(string)
		return c.SendString(val)
	})

	req, _ := http.NewRequest("POST", "/session-set", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("set request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("set request: expected 200, got %d: %s", resp.StatusCode, body)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("set request returned no cookies")
	}

	req2, _ := http.NewRequest("GET", "/session-get", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("replay request failed (possible encryptcookie panic): %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	if resp2.StatusCode != 200 {
		t.Fatalf("replay request: expected 200, got %d: %s", resp2.StatusCode, body)
	}
	if string(body) != "oidc|12345" {
		t.Errorf("replay request: expected session value, got %q", body)
	}
}
