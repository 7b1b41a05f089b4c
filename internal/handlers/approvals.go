package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

// ApprovalStore is the persistence port of the approval gateway.
type ApprovalStore interface {
	GetReviewCheckByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheck, error)
	ApproveFacilitySide(ctx context.Context, id uuid.UUID) (bool, error)
	ApproveAdminSide(ctx context.Context, id uuid.UUID) (bool, error)
	AssignGiftCode(ctx context.Context, checkID uuid.UUID) (*models.GiftCode, error)
}

// GiftCodeNotifier sends the assigned gift code to the reviewer.
type GiftCodeNotifier interface {
	NotifyGiftCodeIssued(ctx context.Context, check *models.ReviewCheck, code *models.GiftCode)
}

// ApprovalHandler serves the public token-gated approval links. Each review
// check carries two independent single-use tokens: one for the facility
// contact and one for back-office admins. The links arrive by email and are
// opened without a session, so the token is the whole credential.
type ApprovalHandler struct {
	store    ApprovalStore
	cfg      *config.Config
	notifier GiftCodeNotifier
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(store ApprovalStore, cfg *config.Config, notifier GiftCodeNotifier) *ApprovalHandler {
	return &ApprovalHandler{store: store, cfg: cfg, notifier: notifier}
}

// FacilityApprove consumes the facility-side approval link.
func (h *ApprovalHandler) FacilityApprove(c fiber.Ctx) error {
	check, err := h.loadCheck(c, func(check *models.ReviewCheck) string {
		return check.FacilityApprovalToken
	})
	if err != nil {
		return err
	}

	if check.FacilityApproved() {
		return h.renderResult(c, check, "Facility approval", "This review has already been approved by the facility.", true)
	}

	approved, err := h.store.ApproveFacilitySide(c.Context(), check.ID)
	if err != nil {
		return err
	}
	if !approved {
		// Lost the race to a concurrent click on the same link.
		return h.renderResult(c, check, "Facility approval", "This review has already been approved by the facility.", true)
	}

	return h.renderResult(c, check, "Facility approval", "Thank you! The review has been approved on the facility side.", false)
}

// AdminApprove consumes the admin-side approval link. The first successful
// call completes the claim and releases a gift code to the reviewer.
func (h *ApprovalHandler) AdminApprove(c fiber.Ctx) error {
	check, err := h.loadCheck(c, func(check *models.ReviewCheck) string {
		return check.AdminApprovalToken
	})
	if err != nil {
		return err
	}

	if check.AdminApproved() {
		return h.renderResult(c, check, "Admin approval", "This claim has already been approved and closed.", true)
	}
	if check.Status == models.CheckFailed {
		return h.renderResult(c, check, "Admin approval", "This claim was closed after verification did not succeed and can no longer be approved.", true)
	}

	approved, err := h.store.ApproveAdminSide(c.Context(), check.ID)
	if err != nil {
		return err
	}
	if !approved {
		// Zero rows affected: either a concurrent click consumed the link
		// or the claim left pending since it was loaded.
		return h.renderResult(c, check, "Admin approval", "This claim has already been approved or closed.", true)
	}

	message := "The claim is approved and a gift code has been emailed to the reviewer."

	code, err := h.store.AssignGiftCode(c.Context(), check.ID)
	if err != nil {
		// An empty pool does not undo the approval; the code can be
		// assigned manually from the back office later.
		if errors.Is(err, db.ErrNoGiftCodesAvailable) {
			log.Printf("No gift codes available for review check %s", check.ID)
			message = "The claim is approved, but the gift code pool is empty. Add codes and assign one manually."
		} else {
			log.Printf("Failed to assign gift code for review check %s: %v", check.ID, err)
			message = "The claim is approved, but assigning a gift code failed. Assign one manually from the back office."
		}
	} else if h.notifier != nil {
		h.notifier.NotifyGiftCodeIssued(c.Context(), check, code)
	}

	return h.renderResult(c, check, "Admin approval", message, false)
}

// loadCheck parses the route, loads the review check and verifies the
// caller's token against the expected one for this side.
func (h *ApprovalHandler) loadCheck(c fiber.Ctx, tokenOf func(*models.ReviewCheck) string) (*models.ReviewCheck, error) {
	token := c.Query("token")
	if token == "" {
		token = c.FormValue("token")
	}
	if token == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "approval token is required")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid review check id")
	}

	check, err := h.store.GetReviewCheckByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrReviewCheckNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "review check not found")
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(tokenOf(check))) != 1 {
		return nil, fiber.NewError(fiber.StatusForbidden, "invalid approval token")
	}

	return check, nil
}

func (h *ApprovalHandler) renderResult(c fiber.Ctx, check *models.ReviewCheck, title, message string, already bool) error {
	return c.Render("approval", MergeBranding(fiber.Map{
		"Title":        title,
		"Message":      message,
		"Already":      already,
		"FacilityName": check.FacilityName,
		"ReviewerName": check.ReviewerName,
	}, h.cfg))
}
