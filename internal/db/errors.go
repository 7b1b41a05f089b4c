package db

import "errors"

// Domain-level database error sentinels.
var (
	// Review check errors
	ErrReviewCheckNotFound = errors.New("review check not found")

	// Task errors
	ErrTaskNotFound = errors.New("review check task not found")

	// Facility errors
	ErrFacilityNotFound = errors.New("facility not found")

	// Gift code errors
	ErrDuplicateGiftCode    = errors.New("gift code already registered")
	ErrGiftCodeNotFound     = errors.New("gift code not found")
	ErrNoGiftCodesAvailable = errors.New("no unused gift codes available")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
