package handlers

import (
	"github.com/gofiber/fiber/v3"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

// FacilityHandler renders the back-office facility list.
type FacilityHandler struct {
	db      *db.DB
	cfg     *config.Config
	yamlCfg *config.YAMLConfig
}

// NewFacilityHandler creates a new facility handler.
func NewFacilityHandler(database *db.DB, cfg *config.Config, yamlCfg *config.YAMLConfig) *FacilityHandler {
	return &FacilityHandler{db: database, cfg: cfg, yamlCfg: yamlCfg}
}

// Index lists facilities, optionally filtered by vertical.
func (h *FacilityHandler) Index(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)

	vertical := c.Query("vertical")
	facilities, err := h.db.ListFacilities(c.Context(), vertical)
	if err != nil {
		return err
	}

	var verticals []config.VerticalConfig
	if h.yamlCfg != nil {
		verticals = h.yamlCfg.Verticals
	}

	return c.Render("facilities", MergeBranding(fiber.Map{
		"Title":      "Facilities",
		"User":       user,
		"Facilities": facilities,
		"Vertical":   vertical,
		"Verticals":  verticals,
	}, h.cfg))
}
