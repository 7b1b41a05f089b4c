package validation

import (
	"regexp"
	"strings"
)

// emailPattern is a pragmatic check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SlugPattern defines the valid vertical slug format.
var SlugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidateEmail checks if an address looks deliverable.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	return emailPattern.MatchString(email)
}

// ValidateReviewStar checks a claimed star rating.
func ValidateReviewStar(star int) bool {
	return star >= 1 && star <= 5
}

// ValidateSlug checks if a vertical slug matches the allowed pattern.
func ValidateSlug(slug string) bool {
	if slug == "" || len(slug) > 50 {
		return false
	}
	return SlugPattern.MatchString(slug)
}

// NormalizeSlug lowercases and trims a slug so lookups are case-insensitive.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateReviewCheckInput checks the claim-creation fields and returns a
// user-facing message for the first problem found.
func ValidateReviewCheckInput(reviewerName, googleAccountName, email string, reviewStar int) (bool, string) {
	if strings.TrimSpace(reviewerName) == "" {
		return false, "reviewer_name is required"
	}
	if strings.TrimSpace(googleAccountName) == "" {
		return false, "google_account_name is required"
	}
	if strings.TrimSpace(email) == "" {
		return false, "email is required"
	}
	if !ValidateEmail(email) {
		return false, "email is not a valid address"
	}
	if reviewStar == 0 {
		return false, "review_star is required"
	}
	if !ValidateReviewStar(reviewStar) {
		return false, "review_star must be between 1 and 5"
	}
	return true, ""
}
