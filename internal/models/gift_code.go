package models

import (
	"time"

	"github.com/google/uuid"
)

// GiftCode is a single-use code from the admin-managed pool. A code is
// consumed when it is assigned to a completed review check.
type GiftCode struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Amount        int        `json:"amount"` // value in yen
	ReviewCheckID *uuid.UUID `json:"review_check_id"`
	UsedAt        *time.Time `json:"used_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Used returns true once the code has been assigned to a claim.
func (g *GiftCode) Used() bool {
	return g.ReviewCheckID != nil
}
