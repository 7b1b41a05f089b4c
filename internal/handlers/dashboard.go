package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

// DashboardHandler renders the back-office claim views.
type DashboardHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{db: database, cfg: cfg}
}

// Index lists review checks, optionally filtered by claim status.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)

	status := c.Query("status")
	switch status {
	case "", models.CheckPending, models.CheckCompleted, models.CheckFailed:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
	}

	checks, err := h.db.ListReviewChecks(c.Context(), status, 200)
	if err != nil {
		return err
	}

	rows := make([]*models.ReviewCheck, len(checks))
	for i := range checks {
		rows[i] = &checks[i]
	}

	return c.Render("dashboard", MergeBranding(fiber.Map{
		"Title":  "Review checks",
		"User":   user,
		"Checks": rows,
		"Status": status,
	}, h.cfg))
}

// Show renders one review check with its verification attempts.
func (h *DashboardHandler) Show(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid review check id")
	}

	check, err := h.db.GetReviewCheckByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrReviewCheckNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "review check not found")
		}
		return err
	}

	tasks, err := h.db.GetTasksForCheck(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Render("review_check", MergeBranding(fiber.Map{
		"Title": "Review check",
		"User":  user,
		"Check": check,
		"Tasks": tasks,
	}, h.cfg))
}
