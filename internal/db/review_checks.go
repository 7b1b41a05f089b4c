package db

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reviewgate/internal/models"
)

// approvalTokenBytes sized so tokens come out at a fixed 43 URL-safe chars.
const approvalTokenBytes = 32

// newApprovalToken generates an unguessable URL-safe token.
func newApprovalToken() string {
	b := make([]byte, approvalTokenBytes)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// CreateReviewCheck inserts a new claim with freshly generated approval tokens.
func (d *DB) CreateReviewCheck(ctx context.Context, check *models.ReviewCheck) error {
	check.FacilityApprovalToken = newApprovalToken()
	check.AdminApprovalToken = newApprovalToken()

	query := `
		INSERT INTO review_checks (facility_id, reviewer_name, google_account_name, email, review_star, facility_approval_token, admin_approval_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, is_approved, is_giftcode_sent, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		check.FacilityID,
		check.ReviewerName,
		check.GoogleAccountName,
		check.Email,
		check.ReviewStar,
		check.FacilityApprovalToken,
		check.AdminApprovalToken,
	).Scan(&check.ID, &check.Status, &check.IsApproved, &check.IsGiftcodeSent, &check.CreatedAt, &check.UpdatedAt)
}

// GetReviewCheckByID retrieves a claim with its facility name.
func (d *DB) GetReviewCheckByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheck, error) {
	query := `
		SELECT r.id, r.facility_id, r.reviewer_name, r.google_account_name, r.email, r.review_star,
			r.status, r.is_approved, r.review_url,
			r.facility_approval_token, r.admin_approval_token,
			r.facility_approved_at, r.admin_approved_at, r.is_giftcode_sent,
			r.created_at, r.updated_at, f.name
		FROM review_checks r
		JOIN facilities f ON f.id = r.facility_id
		WHERE r.id = $1
	`
	var check models.ReviewCheck
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&check.ID, &check.FacilityID, &check.ReviewerName, &check.GoogleAccountName, &check.Email, &check.ReviewStar,
		&check.Status, &check.IsApproved, &check.ReviewURL,
		&check.FacilityApprovalToken, &check.AdminApprovalToken,
		&check.FacilityApprovedAt, &check.AdminApprovedAt, &check.IsGiftcodeSent,
		&check.CreatedAt, &check.UpdatedAt, &check.FacilityName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewCheckNotFound
	}
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// ListReviewChecks returns claims for the back office, newest first,
// optionally filtered by status.
func (d *DB) ListReviewChecks(ctx context.Context, status string, limit int) ([]models.ReviewCheck, error) {
	query := `
		SELECT r.id, r.facility_id, r.reviewer_name, r.google_account_name, r.email, r.review_star,
			r.status, r.is_approved, r.review_url,
			r.facility_approval_token, r.admin_approval_token,
			r.facility_approved_at, r.admin_approved_at, r.is_giftcode_sent,
			r.created_at, r.updated_at, f.name
		FROM review_checks r
		JOIN facilities f ON f.id = r.facility_id
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []models.ReviewCheck
	for rows.Next() {
		var check models.ReviewCheck
		if err := rows.Scan(
			&check.ID, &check.FacilityID, &check.ReviewerName, &check.GoogleAccountName, &check.Email, &check.ReviewStar,
			&check.Status, &check.IsApproved, &check.ReviewURL,
			&check.FacilityApprovalToken, &check.AdminApprovalToken,
			&check.FacilityApprovedAt, &check.AdminApprovedAt, &check.IsGiftcodeSent,
			&check.CreatedAt, &check.UpdatedAt, &check.FacilityName,
		); err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}

// ApproveFacilitySide consumes the facility approval. Returns false when the
// flag was already set, so repeated link visits stay side-effect-free.
func (d *DB) ApproveFacilitySide(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE review_checks
		SET facility_approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND facility_approved_at IS NULL
	`, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// ApproveAdminSide consumes the admin approval: one update sets the approval
// timestamp, the gift-code gate and the terminal completed status together.
// Returns false when the flag was already set or the claim has left pending;
// a failed claim can never become completed.
func (d *DB) ApproveAdminSide(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE review_checks
		SET admin_approved_at = NOW(), is_giftcode_sent = TRUE, status = $1, updated_at = NOW()
		WHERE id = $2 AND admin_approved_at IS NULL AND status = $3
	`, models.CheckCompleted, id, models.CheckPending)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkReviewCheckVerified records that the claimed review was located on the
// external source. No-ops once the claim has left pending.
func (d *DB) MarkReviewCheckVerified(ctx context.Context, id uuid.UUID, reviewURL string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE review_checks
		SET is_approved = TRUE, review_url = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, reviewURL, id, models.CheckPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrReviewCheckNotFound
	}
	return nil
}

// CountReviewChecksByStatus returns claim counts grouped by status.
func (d *DB) CountReviewChecksByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM review_checks GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
