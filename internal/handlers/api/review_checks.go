package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
	"reviewgate/internal/validation"
)

// ClaimStore is the persistence port of the claim API.
type ClaimStore interface {
	GetFacilityByID(ctx context.Context, id uuid.UUID) (*models.Facility, error)
	CreateReviewCheck(ctx context.Context, check *models.ReviewCheck) error
	GetReviewCheckByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheck, error)
	GetTasksForCheck(ctx context.Context, checkID uuid.UUID) ([]models.ReviewCheckTask, error)
}

// VerificationScheduler creates the verification task schedule for a new claim.
type VerificationScheduler interface {
	ScheduleVerification(ctx context.Context, checkID uuid.UUID) error
}

// ReviewCheckHandler handles claim submission and status lookups.
type ReviewCheckHandler struct {
	store     ClaimStore
	cfg       *config.Config
	scheduler VerificationScheduler
}

// NewReviewCheckHandler creates a new API review check handler.
func NewReviewCheckHandler(store ClaimStore, cfg *config.Config, scheduler VerificationScheduler) *ReviewCheckHandler {
	return &ReviewCheckHandler{store: store, cfg: cfg, scheduler: scheduler}
}

// Create registers a new review claim and schedules its verification
// attempts. The claim is accepted without checking the listing; the
// scheduled tasks verify it later.
func (h *ReviewCheckHandler) Create(c fiber.Ctx) error {
	var body struct {
		FacilityID        string `json:"facility_id"`
		ReviewerName      string `json:"reviewer_name"`
		GoogleAccountName string `json:"google_account_name"`
		Email             string `json:"email"`
		ReviewStar        int    `json:"review_star"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	facilityID, err := uuid.Parse(body.FacilityID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid facility_id")
	}

	if valid, msg := validation.ValidateReviewCheckInput(body.ReviewerName, body.GoogleAccountName, body.Email, body.ReviewStar); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	facility, err := h.store.GetFacilityByID(c.Context(), facilityID)
	if err != nil {
		if errors.Is(err, db.ErrFacilityNotFound) {
			return jsonError(c, fiber.StatusNotFound, "facility not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to look up facility")
	}

	check := &models.ReviewCheck{
		FacilityID:        facility.ID,
		ReviewerName:      body.ReviewerName,
		GoogleAccountName: body.GoogleAccountName,
		Email:             body.Email,
		ReviewStar:        body.ReviewStar,
	}
	if err := h.store.CreateReviewCheck(c.Context(), check); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create review check")
	}

	if err := h.scheduler.ScheduleVerification(c.Context(), check.ID); err != nil {
		// The claim exists but has no schedule; surface it rather than
		// silently never verifying.
		log.Printf("Failed to schedule verification for review check %s: %v", check.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to schedule verification")
	}

	check.FacilityName = facility.Name
	return jsonSuccess(c, fiber.Map{
		"review_check": check,
		"message":      "review check registered; verification is scheduled",
	})
}

// Get returns a claim with its verification attempts.
func (h *ReviewCheckHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid review check id")
	}

	check, err := h.store.GetReviewCheckByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrReviewCheckNotFound) {
			return jsonError(c, fiber.StatusNotFound, "review check not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch review check")
	}

	tasks, err := h.store.GetTasksForCheck(c.Context(), id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch verification tasks")
	}

	return jsonSuccess(c, fiber.Map{
		"review_check":   check,
		"approval_state": check.ApprovalState(),
		"tasks":          tasks,
	})
}
