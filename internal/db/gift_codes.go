package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"reviewgate/internal/models"
)

// CreateGiftCode registers a new code in the pool.
func (d *DB) CreateGiftCode(ctx context.Context, code *models.GiftCode) error {
	query := `
		INSERT INTO gift_codes (code, amount)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := d.Pool.QueryRow(ctx, query, code.Code, code.Amount).Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGiftCode
		}
		return err
	}
	return nil
}

// ListGiftCodes returns all codes, unused first, newest within each group.
func (d *DB) ListGiftCodes(ctx context.Context) ([]models.GiftCode, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, code, amount, review_check_id, used_at, created_at
		FROM gift_codes
		ORDER BY (review_check_id IS NOT NULL), created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.GiftCode
	for rows.Next() {
		var code models.GiftCode
		if err := rows.Scan(&code.ID, &code.Code, &code.Amount, &code.ReviewCheckID, &code.UsedAt, &code.CreatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// AssignGiftCode picks the oldest unused code and assigns it to a claim.
// SKIP LOCKED keeps two simultaneous approvals from grabbing the same code.
func (d *DB) AssignGiftCode(ctx context.Context, checkID uuid.UUID) (*models.GiftCode, error) {
	query := `
		UPDATE gift_codes
		SET review_check_id = $1, used_at = NOW()
		WHERE id = (
			SELECT id FROM gift_codes
			WHERE review_check_id IS NULL
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, code, amount, review_check_id, used_at, created_at
	`
	var code models.GiftCode
	err := d.Pool.QueryRow(ctx, query, checkID).Scan(
		&code.ID, &code.Code, &code.Amount, &code.ReviewCheckID, &code.UsedAt, &code.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoGiftCodesAvailable
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// DeleteGiftCode removes an unused code from the pool.
func (d *DB) DeleteGiftCode(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM gift_codes WHERE id = $1 AND review_check_id IS NULL
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrGiftCodeNotFound
	}
	return nil
}
