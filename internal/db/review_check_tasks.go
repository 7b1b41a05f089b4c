package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reviewgate/internal/models"
)

// CreateReviewCheckTasks inserts one pending task per scheduled time, all in
// one transaction so the schedule is durable before the call returns.
func (d *DB) CreateReviewCheckTasks(ctx context.Context, checkID uuid.UUID, scheduledAt []time.Time) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, at := range scheduledAt {
		if _, err := tx.Exec(ctx, `
			INSERT INTO review_check_tasks (review_check_id, scheduled_at)
			VALUES ($1, $2)
		`, checkID, at); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DueTasks returns up to limit pending tasks due at or before now,
// earliest-due first.
func (d *DB) DueTasks(ctx context.Context, now time.Time, limit int) ([]models.ReviewCheckTask, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, review_check_id, scheduled_at, status, confirmed_review_id, executed_at, error_message, created_at
		FROM review_check_tasks
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
		LIMIT $3
	`, models.TaskPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ReviewCheckTask
	for rows.Next() {
		var task models.ReviewCheckTask
		if err := rows.Scan(
			&task.ID, &task.ReviewCheckID, &task.ScheduledAt, &task.Status,
			&task.ConfirmedReviewID, &task.ExecutedAt, &task.ErrorMessage, &task.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// ClaimTask moves a task from pending to in_progress. Returns false when the
// task was already claimed by an overlapping processor invocation.
func (d *DB) ClaimTask(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE review_check_tasks
		SET status = $1
		WHERE id = $2 AND status = $3
	`, models.TaskInProgress, id, models.TaskPending)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// CompleteTask writes a task's successful terminal status (confirmed or
// already_confirmed). Guarded on in_progress so a duplicate execution against
// the same task fails harmlessly.
func (d *DB) CompleteTask(ctx context.Context, id uuid.UUID, status string, confirmedReviewID *string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE review_check_tasks
		SET status = $1, confirmed_review_id = $2, executed_at = NOW()
		WHERE id = $3 AND status = $4
	`, status, confirmedReviewID, id, models.TaskInProgress)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// FailTask writes a task's failed terminal status and, when it was the
// claim's last remaining attempt and the review was never located, marks the
// claim itself failed.
func (d *DB) FailTask(ctx context.Context, id uuid.UUID, errorMessage string) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var checkID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE review_check_tasks
		SET status = $1, error_message = $2, executed_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING review_check_id
	`, models.TaskFailed, errorMessage, id, models.TaskInProgress).Scan(&checkID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTaskNotFound
	}
	if err != nil {
		return err
	}

	var remaining int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM review_check_tasks
		WHERE review_check_id = $1 AND status IN ($2, $3) AND id <> $4
	`, checkID, models.TaskPending, models.TaskInProgress, id).Scan(&remaining)
	if err != nil {
		return err
	}

	if remaining == 0 {
		// Retries exhausted. Leave verified claims alone; they are still
		// waiting on their approval links.
		if _, err := tx.Exec(ctx, `
			UPDATE review_checks
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3 AND is_approved = FALSE
		`, models.CheckFailed, checkID, models.CheckPending); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetTaskByID retrieves a single task.
func (d *DB) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheckTask, error) {
	var task models.ReviewCheckTask
	err := d.Pool.QueryRow(ctx, `
		SELECT id, review_check_id, scheduled_at, status, confirmed_review_id, executed_at, error_message, created_at
		FROM review_check_tasks
		WHERE id = $1
	`, id).Scan(
		&task.ID, &task.ReviewCheckID, &task.ScheduledAt, &task.Status,
		&task.ConfirmedReviewID, &task.ExecutedAt, &task.ErrorMessage, &task.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasksForCheck returns all tasks for a claim, earliest first.
func (d *DB) GetTasksForCheck(ctx context.Context, checkID uuid.UUID) ([]models.ReviewCheckTask, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, review_check_id, scheduled_at, status, confirmed_review_id, executed_at, error_message, created_at
		FROM review_check_tasks
		WHERE review_check_id = $1
		ORDER BY scheduled_at ASC
	`, checkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ReviewCheckTask
	for rows.Next() {
		var task models.ReviewCheckTask
		if err := rows.Scan(
			&task.ID, &task.ReviewCheckID, &task.ScheduledAt, &task.Status,
			&task.ConfirmedReviewID, &task.ExecutedAt, &task.ErrorMessage, &task.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
