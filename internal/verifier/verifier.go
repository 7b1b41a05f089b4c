// Package verifier checks claimed reviews against the external review source.
package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"reviewgate/internal/models"
)

// Store is the data access the checker needs. The checker owns the terminal
// status of the task it runs: confirmed, already_confirmed or failed.
type Store interface {
	GetReviewCheckByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheck, error)
	GetFacilityByID(ctx context.Context, id uuid.UUID) (*models.Facility, error)
	MarkReviewCheckVerified(ctx context.Context, id uuid.UUID, reviewURL string) error
	CompleteTask(ctx context.Context, id uuid.UUID, status string, confirmedReviewID *string) error
	FailTask(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// Notifier is invoked when a claim is first verified, so the approval links
// can go out.
type Notifier interface {
	NotifyClaimVerified(ctx context.Context, check *models.ReviewCheck, facility *models.Facility)
}

// listedReview is one entry in the external review listing response.
type listedReview struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	URL    string `json:"url"`
}

// GoogleChecker verifies claims against the Google review listing endpoint.
type GoogleChecker struct {
	store    Store
	notifier Notifier
	endpoint string
	client   *http.Client
}

// NewGoogleChecker creates a checker against the given listing endpoint.
// notifier may be nil.
func NewGoogleChecker(store Store, notifier Notifier, endpoint string) *GoogleChecker {
	return &GoogleChecker{
		store:    store,
		notifier: notifier,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Check runs one verification attempt for a claimed task. The task must
// already be in_progress. A clean "review not listed yet" outcome writes the
// task as failed and returns nil; transport and store errors write the task
// as failed and are returned so the processor can tally them.
func (g *GoogleChecker) Check(ctx context.Context, task models.ReviewCheckTask) error {
	check, err := g.store.GetReviewCheckByID(ctx, task.ReviewCheckID)
	if err != nil {
		return g.fail(ctx, task.ID, fmt.Errorf("load review check: %w", err))
	}

	// A previous attempt already located the review.
	if check.IsApproved {
		if err := g.store.CompleteTask(ctx, task.ID, models.TaskAlreadyConfirmed, nil); err != nil {
			return fmt.Errorf("complete task: %w", err)
		}
		return nil
	}

	facility, err := g.store.GetFacilityByID(ctx, check.FacilityID)
	if err != nil {
		return g.fail(ctx, task.ID, fmt.Errorf("load facility: %w", err))
	}

	reviews, err := g.fetchListing(ctx, facility.GooglePlaceID)
	if err != nil {
		return g.fail(ctx, task.ID, err)
	}

	match := findReview(reviews, check.GoogleAccountName, check.ReviewStar)
	if match == nil {
		// Not an error: the review may simply not be listed yet and a
		// later scheduled attempt will look again.
		if err := g.store.FailTask(ctx, task.ID, "review not found in listing"); err != nil {
			return fmt.Errorf("fail task: %w", err)
		}
		return nil
	}

	if err := g.store.MarkReviewCheckVerified(ctx, check.ID, match.URL); err != nil {
		return g.fail(ctx, task.ID, fmt.Errorf("mark verified: %w", err))
	}
	if err := g.store.CompleteTask(ctx, task.ID, models.TaskConfirmed, &match.ID); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	if g.notifier != nil {
		g.notifier.NotifyClaimVerified(ctx, check, facility)
	}
	return nil
}

// fail records the error on the task and propagates it.
func (g *GoogleChecker) fail(ctx context.Context, taskID uuid.UUID, cause error) error {
	if err := g.store.FailTask(ctx, taskID, cause.Error()); err != nil {
		return errors.Join(cause, fmt.Errorf("fail task: %w", err))
	}
	return cause
}

// fetchListing retrieves the current reviews for a place.
func (g *GoogleChecker) fetchListing(ctx context.Context, placeID string) ([]listedReview, error) {
	if placeID == "" {
		return nil, errors.New("facility has no google place id")
	}

	reqURL := fmt.Sprintf("%s/places/%s/reviews", g.endpoint, url.PathEscape(placeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("User-Agent", "ReviewGate-Verifier/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		Reviews []listedReview `json:"reviews"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return body.Reviews, nil
}

// findReview locates the claimed review by account name and star rating.
func findReview(reviews []listedReview, account string, star int) *listedReview {
	for i := range reviews {
		if reviews[i].Author == account && reviews[i].Rating == star {
			return &reviews[i]
		}
	}
	return nil
}
