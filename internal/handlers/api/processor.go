package api

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"reviewgate/internal/jobs"
)

// ProcessorRunner runs one batch of due verification tasks.
type ProcessorRunner interface {
	RunOnce(ctx context.Context) (*jobs.RunResult, error)
}

// ProcessorHandler exposes a manual trigger for the verification processor.
type ProcessorHandler struct {
	processor ProcessorRunner
}

// NewProcessorHandler creates a new processor trigger handler.
func NewProcessorHandler(processor ProcessorRunner) *ProcessorHandler {
	return &ProcessorHandler{processor: processor}
}

// Trigger runs one processor batch immediately, outside the periodic
// schedule, and reports the per-task outcomes.
func (h *ProcessorHandler) Trigger(c fiber.Ctx) error {
	result, err := h.processor.RunOnce(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "processor run failed")
	}

	if result.Total == 0 {
		return jsonSuccess(c, fiber.Map{
			"message":   "no pending tasks",
			"processed": 0,
		})
	}

	return jsonSuccess(c, fiber.Map{
		"message": "batch processed",
		"total":   result.Total,
		"success": result.Success,
		"failed":  result.Failed,
		"results": result.Results,
	})
}
