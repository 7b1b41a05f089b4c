package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"reviewgate/internal/config"
	"reviewgate/internal/models"
	"reviewgate/internal/validation"
)

// FacilityStore is the persistence port of the facility API.
type FacilityStore interface {
	CreateFacility(ctx context.Context, facility *models.Facility) error
	ListFacilities(ctx context.Context, vertical string) ([]models.Facility, error)
}

// FacilityHandler handles facility management via JSON API.
type FacilityHandler struct {
	store   FacilityStore
	cfg     *config.Config
	yamlCfg *config.YAMLConfig
}

// NewFacilityHandler creates a new API facility handler.
func NewFacilityHandler(store FacilityStore, cfg *config.Config, yamlCfg *config.YAMLConfig) *FacilityHandler {
	return &FacilityHandler{store: store, cfg: cfg, yamlCfg: yamlCfg}
}

// List returns facilities, optionally filtered by vertical slug.
func (h *FacilityHandler) List(c fiber.Ctx) error {
	vertical := validation.NormalizeSlug(c.Query("vertical"))

	facilities, err := h.store.ListFacilities(c.Context(), vertical)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch facilities")
	}

	return jsonSuccess(c, facilities)
}

// Create registers a new facility in one of the configured verticals.
func (h *FacilityHandler) Create(c fiber.Ctx) error {
	var body struct {
		Vertical      string `json:"vertical"`
		Name          string `json:"name"`
		GooglePlaceID string `json:"google_place_id"`
		ContactEmail  string `json:"contact_email"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Vertical = validation.NormalizeSlug(body.Vertical)

	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	if body.GooglePlaceID == "" {
		return jsonError(c, fiber.StatusBadRequest, "google_place_id is required")
	}
	if !validation.ValidateSlug(body.Vertical) {
		return jsonError(c, fiber.StatusBadRequest, "vertical must contain only lowercase letters, numbers, hyphens, and underscores")
	}
	if h.yamlCfg != nil && h.yamlCfg.GetVerticalBySlug(body.Vertical) == nil {
		return jsonError(c, fiber.StatusBadRequest, "unknown vertical")
	}
	if body.ContactEmail != "" && !validation.ValidateEmail(body.ContactEmail) {
		return jsonError(c, fiber.StatusBadRequest, "contact_email is not a valid address")
	}

	facility := &models.Facility{
		Vertical:      body.Vertical,
		Name:          body.Name,
		GooglePlaceID: body.GooglePlaceID,
		ContactEmail:  body.ContactEmail,
	}
	if err := h.store.CreateFacility(c.Context(), facility); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create facility")
	}

	return jsonSuccess(c, facility)
}
