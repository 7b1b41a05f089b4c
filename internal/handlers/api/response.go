package api

import (
	"github.com/gofiber/fiber/v3"
)

// jsonSuccess wraps data in the envelope the claim submission form and the
// back office scripts expect: {"status": "ok", "data": ...}.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError reports a failure with the given HTTP status. The message is the
// whole detail exposed to the caller; store errors are logged server side and
// surfaced here as a fixed generic string.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
