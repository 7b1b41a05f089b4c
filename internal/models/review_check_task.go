package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewCheckTask status constants.
const (
	TaskPending          = "pending"
	TaskInProgress       = "in_progress"
	TaskConfirmed        = "confirmed"
	TaskAlreadyConfirmed = "already_confirmed"
	TaskFailed           = "failed"
)

// ReviewCheckTask is one scheduled verification attempt for a ReviewCheck.
// A claim gets several tasks up front (a backoff schedule); each task is
// claimed and executed at most once and is terminal once its status leaves
// pending/in_progress.
type ReviewCheckTask struct {
	ID                uuid.UUID  `json:"id"`
	ReviewCheckID     uuid.UUID  `json:"review_check_id"`
	ScheduledAt       time.Time  `json:"scheduled_at"`
	Status            string     `json:"status"` // pending, in_progress, confirmed, already_confirmed, failed
	ConfirmedReviewID *string    `json:"confirmed_review_id"`
	ExecutedAt        *time.Time `json:"executed_at"`
	ErrorMessage      *string    `json:"error_message"`
	CreatedAt         time.Time  `json:"created_at"`
}
