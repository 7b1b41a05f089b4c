package handlers

import (
	"github.com/gofiber/fiber/v3"

	"reviewgate/internal/db"
)

// ProbeHandler serves the Kubernetes health probe endpoints.
type ProbeHandler struct {
	db *db.DB
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(database *db.DB) *ProbeHandler {
	return &ProbeHandler{db: database}
}

// Liveness handles /healthz. Returns 200 as long as the process is up.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles /readyz. The claim and task store is the only hard
// dependency; without it neither the approval links nor the verification
// processor can make progress, so an unreachable database means not ready.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "review check store unreachable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
