package models

import (
	"time"

	"github.com/google/uuid"
)

// Facility represents a listed facility (clinic, builder, stay, shop) in one
// of the platform's verticals.
type Facility struct {
	ID            uuid.UUID `json:"id"`
	Vertical      string    `json:"vertical"` // vertical slug, e.g. "clinics"
	Name          string    `json:"name"`
	GooglePlaceID string    `json:"google_place_id"`
	ContactEmail  string    `json:"contact_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
