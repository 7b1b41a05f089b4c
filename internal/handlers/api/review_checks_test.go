package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

type fakeClaimStore struct {
	facility *models.Facility
	check    *models.ReviewCheck
	tasks    []models.ReviewCheckTask

	created *models.ReviewCheck
}

func (f *fakeClaimStore) GetFacilityByID(ctx context.Context, id uuid.UUID) (*models.Facility, error) {
	if f.facility == nil || f.facility.ID != id {
		return nil, db.ErrFacilityNotFound
	}
	return f.facility, nil
}

func (f *fakeClaimStore) CreateReviewCheck(ctx context.Context, check *models.ReviewCheck) error {
	check.ID = uuid.New()
	check.Status = models.CheckPending
	f.created = check
	return nil
}

func (f *fakeClaimStore) GetReviewCheckByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheck, error) {
	if f.check == nil || f.check.ID != id {
		return nil, db.ErrReviewCheckNotFound
	}
	return f.check, nil
}

func (f *fakeClaimStore) GetTasksForCheck(ctx context.Context, checkID uuid.UUID) ([]models.ReviewCheckTask, error) {
	return f.tasks, nil
}

type fakeScheduler struct {
	scheduled []uuid.UUID
	err       error
}

func (f *fakeScheduler) ScheduleVerification(ctx context.Context, checkID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, checkID)
	return nil
}

func newClaimApp(store ClaimStore, scheduler VerificationScheduler) *fiber.App {
	app := fiber.New()
	h := NewReviewCheckHandler(store, &config.Config{}, scheduler)
	app.Post("/api/review-checks", h.Create)
	app.Get("/api/review-checks/:id", h.Get)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func TestCreateReviewCheck(t *testing.T) {
	facility := &models.Facility{ID: uuid.New(), Name: "Sakura Dental Clinic"}
	store := &fakeClaimStore{facility: facility}
	scheduler := &fakeScheduler{}
	app := newClaimApp(store, scheduler)

	resp, body := postJSON(t, app, "/api/review-checks", map[string]any{
		"facility_id":         facility.ID.String(),
		"reviewer_name":       "Taro Yamada",
		"google_account_name": "taro.y",
		"email":               "taro@example.com",
		"review_star":         5,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "ok" {
		t.Errorf("expected ok envelope, got %v", body)
	}
	if store.created == nil {
		t.Fatal("expected review check to be created")
	}
	if len(scheduler.scheduled) != 1 || scheduler.scheduled[0] != store.created.ID {
		t.Errorf("expected verification scheduled for %s, got %v", store.created.ID, scheduler.scheduled)
	}
}

func TestCreateReviewCheck_Validation(t *testing.T) {
	facility := &models.Facility{ID: uuid.New(), Name: "Sakura Dental Clinic"}

	base := func() map[string]any {
		return map[string]any{
			"facility_id":         facility.ID.String(),
			"reviewer_name":       "Taro Yamada",
			"google_account_name": "taro.y",
			"email":               "taro@example.com",
			"review_star":         5,
		}
	}

	tests := []struct {
		name       string
		mutate     func(map[string]any)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing reviewer name",
			mutate:     func(m map[string]any) { m["reviewer_name"] = "" },
			wantStatus: http.StatusBadRequest,
			wantError:  "reviewer_name is required",
		},
		{
			name:       "missing google account name",
			mutate:     func(m map[string]any) { m["google_account_name"] = "" },
			wantStatus: http.StatusBadRequest,
			wantError:  "google_account_name is required",
		},
		{
			name:       "bad email",
			mutate:     func(m map[string]any) { m["email"] = "not-an-email" },
			wantStatus: http.StatusBadRequest,
			wantError:  "email is not a valid address",
		},
		{
			name:       "star out of range",
			mutate:     func(m map[string]any) { m["review_star"] = 6 },
			wantStatus: http.StatusBadRequest,
			wantError:  "review_star must be between 1 and 5",
		},
		{
			name:       "missing star",
			mutate:     func(m map[string]any) { delete(m, "review_star") },
			wantStatus: http.StatusBadRequest,
			wantError:  "review_star is required",
		},
		{
			name:       "bad facility id",
			mutate:     func(m map[string]any) { m["facility_id"] = "nope" },
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid facility_id",
		},
		{
			name:       "unknown facility",
			mutate:     func(m map[string]any) { m["facility_id"] = uuid.NewString() },
			wantStatus: http.StatusNotFound,
			wantError:  "facility not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeClaimStore{facility: facility}
			scheduler := &fakeScheduler{}
			app := newClaimApp(store, scheduler)

			payload := base()
			tt.mutate(payload)

			resp, body := postJSON(t, app, "/api/review-checks", payload)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d: %v", tt.wantStatus, resp.StatusCode, body)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
			}
			if store.created != nil {
				t.Error("expected no review check created")
			}
			if len(scheduler.scheduled) != 0 {
				t.Error("expected nothing scheduled")
			}
		})
	}
}

func TestGetReviewCheck(t *testing.T) {
	check := &models.ReviewCheck{
		ID:         uuid.New(),
		Status:     models.CheckPending,
		IsApproved: true,
	}
	store := &fakeClaimStore{
		check: check,
		tasks: []models.ReviewCheckTask{{ID: uuid.New(), Status: models.TaskConfirmed}},
	}
	app := newClaimApp(store, &fakeScheduler{})

	req, _ := http.NewRequest("GET", "/api/review-checks/"+check.ID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	json.Unmarshal(raw, &body)

	data, _ := body["data"].(map[string]any)
	if data == nil {
		t.Fatalf("expected data envelope, got %v", body)
	}
	if data["approval_state"] != models.AwaitingFacility {
		t.Errorf("expected approval state %q, got %v", models.AwaitingFacility, data["approval_state"])
	}
	tasks, _ := data["tasks"].([]any)
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
}

func TestGetReviewCheck_NotFound(t *testing.T) {
	app := newClaimApp(&fakeClaimStore{}, &fakeScheduler{})

	req, _ := http.NewRequest("GET", "/api/review-checks/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
