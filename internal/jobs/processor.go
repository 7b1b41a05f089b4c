package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"reviewgate/internal/metrics"
	"reviewgate/internal/models"
)

// TaskStore is the due-task fetch and claim port of the processor.
type TaskStore interface {
	DueTasks(ctx context.Context, now time.Time, limit int) ([]models.ReviewCheckTask, error)
	ClaimTask(ctx context.Context, id uuid.UUID) (bool, error)
}

// Checker runs one verification attempt. It owns the task's terminal status;
// the processor only observes whether the invocation succeeded.
type Checker interface {
	Check(ctx context.Context, task models.ReviewCheckTask) error
}

// TaskResult is the per-task outcome of one processor run.
type TaskResult struct {
	TaskID  uuid.UUID `json:"taskId"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// RunResult aggregates one processor invocation.
type RunResult struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Results []TaskResult `json:"results"`
}

// Processor polls due verification tasks and dispatches them to the checker.
type Processor struct {
	tasks     TaskStore
	checker   Checker
	batchSize int
	interval  time.Duration
	now       func() time.Time
}

// NewProcessor creates a processor with the given batch bound and polling
// interval.
func NewProcessor(tasks TaskStore, checker Checker, batchSize int, interval time.Duration) *Processor {
	return &Processor{
		tasks:     tasks,
		checker:   checker,
		batchSize: batchSize,
		interval:  interval,
		now:       time.Now,
	}
}

// Start begins the periodic processing loop.
func (p *Processor) Start(ctx context.Context) {
	log.Printf("Verification processor started (interval: %v, batch: %d)", p.interval, p.batchSize)

	// Run immediately on start
	p.runLogged(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Verification processor stopped")
			return
		case <-ticker.C:
			p.runLogged(ctx)
		}
	}
}

func (p *Processor) runLogged(ctx context.Context) {
	result, err := p.RunOnce(ctx)
	if err != nil {
		log.Printf("Verification processor: run failed: %v", err)
		return
	}
	if result.Total > 0 {
		log.Printf("Verification processor: %d attempted, %d succeeded, %d failed",
			result.Total, result.Success, result.Failed)
	}
}

// RunOnce fetches due pending tasks, bounded to the batch size and ordered
// earliest-due first, and dispatches them to the checker one at a time. A
// failing task is recorded and never aborts the rest of the batch. Tasks
// claimed by an overlapping invocation are skipped.
func (p *Processor) RunOnce(ctx context.Context) (*RunResult, error) {
	metrics.RecordProcessorRun()

	due, err := p.tasks.DueTasks(ctx, p.now(), p.batchSize)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Results: []TaskResult{}}
	for _, task := range due {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		claimed, err := p.tasks.ClaimTask(ctx, task.ID)
		if err != nil {
			result.Total++
			result.Failed++
			result.Results = append(result.Results, TaskResult{TaskID: task.ID, Error: err.Error()})
			metrics.RecordTaskOutcome("failed")
			continue
		}
		if !claimed {
			// Lost to an overlapping invocation; it is that run's task now.
			metrics.RecordTaskOutcome("skipped")
			continue
		}

		result.Total++
		if err := p.checker.Check(ctx, task); err != nil {
			result.Failed++
			result.Results = append(result.Results, TaskResult{TaskID: task.ID, Error: err.Error()})
			metrics.RecordTaskOutcome("failed")
			continue
		}
		result.Success++
		result.Results = append(result.Results, TaskResult{TaskID: task.ID, Success: true})
		metrics.RecordTaskOutcome("succeeded")
	}

	return result, nil
}
