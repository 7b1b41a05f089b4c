package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskCreator persists scheduled verification attempts.
type TaskCreator interface {
	CreateReviewCheckTasks(ctx context.Context, checkID uuid.UUID, scheduledAt []time.Time) error
}

// Scheduler creates the verification task schedule for a new review claim.
type Scheduler struct {
	store   TaskCreator
	offsets []time.Duration
	now     func() time.Time
}

// NewScheduler creates a scheduler with the given backoff offsets.
func NewScheduler(store TaskCreator, offsets []time.Duration) *Scheduler {
	return &Scheduler{
		store:   store,
		offsets: offsets,
		now:     time.Now,
	}
}

// ScheduleVerification persists one pending task per offset. Tasks are
// durable before this returns; nothing is executed synchronously.
func (s *Scheduler) ScheduleVerification(ctx context.Context, checkID uuid.UUID) error {
	now := s.now()
	times := make([]time.Time, len(s.offsets))
	for i, offset := range s.offsets {
		times[i] = now.Add(offset)
	}
	return s.store.CreateReviewCheckTasks(ctx, checkID, times)
}
