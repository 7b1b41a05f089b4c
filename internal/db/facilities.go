package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reviewgate/internal/models"
)

// CreateFacility inserts a new facility.
func (d *DB) CreateFacility(ctx context.Context, facility *models.Facility) error {
	query := `
		INSERT INTO facilities (vertical, name, google_place_id, contact_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		facility.Vertical,
		facility.Name,
		facility.GooglePlaceID,
		facility.ContactEmail,
	).Scan(&facility.ID, &facility.CreatedAt, &facility.UpdatedAt)
}

// GetFacilityByID retrieves a facility by its UUID.
func (d *DB) GetFacilityByID(ctx context.Context, id uuid.UUID) (*models.Facility, error) {
	query := `
		SELECT id, vertical, name, google_place_id, contact_email, created_at, updated_at
		FROM facilities WHERE id = $1
	`
	var facility models.Facility
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&facility.ID,
		&facility.Vertical,
		&facility.Name,
		&facility.GooglePlaceID,
		&facility.ContactEmail,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &facility, nil
}

// ListFacilities returns facilities, optionally filtered by vertical slug.
func (d *DB) ListFacilities(ctx context.Context, vertical string) ([]models.Facility, error) {
	query := `
		SELECT id, vertical, name, google_place_id, contact_email, created_at, updated_at
		FROM facilities
		WHERE ($1 = '' OR vertical = $1)
		ORDER BY name ASC
	`
	rows, err := d.Pool.Query(ctx, query, vertical)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facilities []models.Facility
	for rows.Next() {
		var facility models.Facility
		if err := rows.Scan(
			&facility.ID,
			&facility.Vertical,
			&facility.Name,
			&facility.GooglePlaceID,
			&facility.ContactEmail,
			&facility.CreatedAt,
			&facility.UpdatedAt,
		); err != nil {
			return nil, err
		}
		facilities = append(facilities, facility)
	}
	return facilities, rows.Err()
}
