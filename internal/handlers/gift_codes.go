package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

// GiftCodeStore is the persistence port of the gift code pool pages.
type GiftCodeStore interface {
	ListGiftCodes(ctx context.Context) ([]models.GiftCode, error)
	CreateGiftCode(ctx context.Context, code *models.GiftCode) error
	DeleteGiftCode(ctx context.Context, id uuid.UUID) error
}

// GiftCodeHandler manages the admin gift code pool.
type GiftCodeHandler struct {
	store GiftCodeStore
	cfg   *config.Config
}

// NewGiftCodeHandler creates a new gift code handler.
func NewGiftCodeHandler(store GiftCodeStore, cfg *config.Config) *GiftCodeHandler {
	return &GiftCodeHandler{store: store, cfg: cfg}
}

// Index lists the gift code pool.
func (h *GiftCodeHandler) Index(c fiber.Ctx) error {
	return h.renderIndex(c, c.Query("message"))
}

// Create adds a new code to the pool.
func (h *GiftCodeHandler) Create(c fiber.Ctx) error {
	code := c.FormValue("code")
	if code == "" {
		return h.renderIndex(c.Status(fiber.StatusBadRequest), "code is required")
	}

	amount, err := strconv.Atoi(c.FormValue("amount"))
	if err != nil || amount <= 0 {
		return h.renderIndex(c.Status(fiber.StatusBadRequest), "amount must be a positive number")
	}

	giftCode := &models.GiftCode{Code: code, Amount: amount}
	if err := h.store.CreateGiftCode(c.Context(), giftCode); err != nil {
		if errors.Is(err, db.ErrDuplicateGiftCode) {
			return h.renderIndex(c.Status(fiber.StatusBadRequest), "a gift code with this value already exists")
		}
		return err
	}

	return c.Redirect().To("/gift-codes")
}

// Delete removes an unused code from the pool. Codes already assigned to a
// claim cannot be deleted.
func (h *GiftCodeHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid gift code id")
	}

	if err := h.store.DeleteGiftCode(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrGiftCodeNotFound) {
			return h.renderIndex(c, "gift code not found or already used")
		}
		return err
	}

	return c.Redirect().To("/gift-codes")
}

func (h *GiftCodeHandler) renderIndex(c fiber.Ctx, message string) error {
	user, _ := c.Locals("user").(*models.User)

	codes, err := h.store.ListGiftCodes(c.Context())
	if err != nil {
		return err
	}

	rows := make([]*models.GiftCode, len(codes))
	for i := range codes {
		rows[i] = &codes[i]
	}

	return c.Render("gift_codes", MergeBranding(fiber.Map{
		"Title":   "Gift codes",
		"User":    user,
		"Codes":   rows,
		"Message": message,
	}, h.cfg))
}
