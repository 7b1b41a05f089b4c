package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewCheck status constants.
const (
	CheckPending   = "pending"
	CheckCompleted = "completed"
	CheckFailed    = "failed"
)

// Approval states derived from the approval timestamps.
const (
	AwaitingFacility = "awaiting_facility"
	AwaitingAdmin    = "awaiting_admin"
	ApprovalComplete = "completed"
)

// ReviewCheck represents a reviewer's claim that they left a review for a
// facility on the external review source.
type ReviewCheck struct {
	ID                    uuid.UUID  `json:"id"`
	FacilityID            uuid.UUID  `json:"facility_id"`
	ReviewerName          string     `json:"reviewer_name"`
	GoogleAccountName     string     `json:"google_account_name"`
	Email                 string     `json:"email"`
	ReviewStar            int        `json:"review_star"`
	Status                string     `json:"status"` // pending, completed, failed
	IsApproved            bool       `json:"is_approved"`
	ReviewURL             *string    `json:"review_url"`
	FacilityApprovalToken string     `json:"-"`
	AdminApprovalToken    string     `json:"-"`
	FacilityApprovedAt    *time.Time `json:"facility_approved_at"`
	AdminApprovedAt       *time.Time `json:"admin_approved_at"`
	IsGiftcodeSent        bool       `json:"is_giftcode_sent"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Non-DB fields, populated via JOIN for display
	FacilityName string `json:"facility_name,omitempty"`
}

// FacilityApproved returns true if the facility-side approval link has been consumed.
func (r *ReviewCheck) FacilityApproved() bool {
	return r.FacilityApprovedAt != nil
}

// AdminApproved returns true if the admin-side approval link has been consumed.
func (r *ReviewCheck) AdminApproved() bool {
	return r.AdminApprovedAt != nil
}

// ApprovalState returns the explicit approval state for display.
// Admin approval closes the claim regardless of facility approval; the two
// links are otherwise unordered.
func (r *ReviewCheck) ApprovalState() string {
	switch {
	case r.AdminApproved():
		return ApprovalComplete
	case r.FacilityApproved():
		return AwaitingAdmin
	default:
		return AwaitingFacility
	}
}
