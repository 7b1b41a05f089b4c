package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/template/html/v3"
	"github.com/google/uuid"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/models"
)

type fakeApprovalStore struct {
	check *models.ReviewCheck

	facilityCalls int
	adminCalls    int
	assignCalls   int

	assignCode *models.GiftCode
	assignErr  error
}

func (f *fakeApprovalStore) GetReviewCheckByID(ctx context.Context, id uuid.UUID) (*models.ReviewCheck, error) {
	if f.check == nil || f.check.ID != id {
		return nil, db.ErrReviewCheckNotFound
	}
	dup := *f.check
	return &dup, nil
}

func (f *fakeApprovalStore) ApproveFacilitySide(ctx context.Context, id uuid.UUID) (bool, error) {
	f.facilityCalls++
	if f.check.FacilityApprovedAt != nil {
		return false, nil
	}
	now := time.Now()
	f.check.FacilityApprovedAt = &now
	return true, nil
}

func (f *fakeApprovalStore) ApproveAdminSide(ctx context.Context, id uuid.UUID) (bool, error) {
	f.adminCalls++
	if f.check.AdminApprovedAt != nil || f.check.Status != models.CheckPending {
		return false, nil
	}
	now := time.Now()
	f.check.AdminApprovedAt = &now
	f.check.Status = models.CheckCompleted
	f.check.IsGiftcodeSent = true
	return true, nil
}

func (f *fakeApprovalStore) AssignGiftCode(ctx context.Context, checkID uuid.UUID) (*models.GiftCode, error) {
	f.assignCalls++
	if f.assignErr != nil {
		return nil, f.assignErr
	}
	return f.assignCode, nil
}

type fakeGiftCodeNotifier struct {
	calls int
	code  *models.GiftCode
}

func (f *fakeGiftCodeNotifier) NotifyGiftCodeIssued(ctx context.Context, check *models.ReviewCheck, code *models.GiftCode) {
	f.calls++
	f.code = code
}

func approvalTestCheck() *models.ReviewCheck {
	return &models.ReviewCheck{
		ID:                    uuid.New(),
		FacilityID:            uuid.New(),
		ReviewerName:          "Taro Yamada",
		Email:                 "taro@example.com",
		ReviewStar:            5,
		Status:                models.CheckPending,
		FacilityApprovalToken: "facility-token",
		AdminApprovalToken:    "admin-token",
		FacilityName:          "Sakura Dental Clinic",
	}
}

func newApprovalApp(store ApprovalStore, notifier GiftCodeNotifier) *fiber.App {
	engine := html.New("../../views", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
	})

	cfg := &config.Config{SiteTitle: "ReviewGate", BaseURL: "http://localhost:3000"}
	h := NewApprovalHandler(store, cfg, notifier)

	app.Get("/review-checks/:id/facility-approve", h.FacilityApprove)
	app.Post("/review-checks/:id/facility-approve", h.FacilityApprove)
	app.Get("/review-checks/:id/admin-approve", h.AdminApprove)
	app.Post("/review-checks/:id/admin-approve", h.AdminApprove)

	return app
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestFacilityApprove(t *testing.T) {
	check := approvalTestCheck()
	store := &fakeApprovalStore{check: check}
	app := newApprovalApp(store, nil)

	resp, body := get(t, app, "/review-checks/"+check.ID.String()+"/facility-approve?token=facility-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Thank you") {
		t.Errorf("expected success message, got: %s", body)
	}
	if store.facilityCalls != 1 {
		t.Errorf("expected 1 approval call, got %d", store.facilityCalls)
	}
}

func TestFacilityApprove_AlreadyApproved(t *testing.T) {
	check := approvalTestCheck()
	now := time.Now()
	check.FacilityApprovedAt = &now
	store := &fakeApprovalStore{check: check}
	app := newApprovalApp(store, nil)

	resp, body := get(t, app, "/review-checks/"+check.ID.String()+"/facility-approve?token=facility-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "already been approved") {
		t.Errorf("expected already-approved message, got: %s", body)
	}

	// The link is consumed; no second state change is attempted.
	if store.facilityCalls != 0 {
		t.Errorf("expected no approval call, got %d", store.facilityCalls)
	}
}

func TestFacilityApprove_TokenErrors(t *testing.T) {
	check := approvalTestCheck()
	store := &fakeApprovalStore{check: check}
	app := newApprovalApp(store, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{
			name:       "missing token",
			path:       "/review-checks/" + check.ID.String() + "/facility-approve",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid id",
			path:       "/review-checks/not-a-uuid/facility-approve?token=facility-token",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown check",
			path:       "/review-checks/" + uuid.NewString() + "/facility-approve?token=facility-token",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrong token",
			path:       "/review-checks/" + check.ID.String() + "/facility-approve?token=wrong",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin token on facility link",
			path:       "/review-checks/" + check.ID.String() + "/facility-approve?token=admin-token",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, app, tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if store.facilityCalls != 0 {
				t.Errorf("expected no approval call, got %d", store.facilityCalls)
			}
		})
	}
}

func TestAdminApprove_ReleasesGiftCode(t *testing.T) {
	check := approvalTestCheck()
	code := &models.GiftCode{ID: uuid.New(), Code: "GIFT-0001", Amount: 500}
	store := &fakeApprovalStore{check: check, assignCode: code}
	notifier := &fakeGiftCodeNotifier{}
	app := newApprovalApp(store, notifier)

	resp, body := get(t, app, "/review-checks/"+check.ID.String()+"/admin-approve?token=admin-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "gift code has been emailed") {
		t.Errorf("expected gift code message, got: %s", body)
	}
	if store.adminCalls != 1 {
		t.Errorf("expected 1 admin approval, got %d", store.adminCalls)
	}
	if store.assignCalls != 1 {
		t.Errorf("expected 1 gift code assignment, got %d", store.assignCalls)
	}
	if notifier.calls != 1 || notifier.code != code {
		t.Errorf("expected gift code notification with assigned code")
	}
}

func TestAdminApprove_EmptyPoolStillApproves(t *testing.T) {
	check := approvalTestCheck()
	store := &fakeApprovalStore{check: check, assignErr: db.ErrNoGiftCodesAvailable}
	notifier := &fakeGiftCodeNotifier{}
	app := newApprovalApp(store, notifier)

	resp, body := get(t, app, "/review-checks/"+check.ID.String()+"/admin-approve?token=admin-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "pool is empty") {
		t.Errorf("expected empty-pool message, got: %s", body)
	}
	if store.adminCalls != 1 {
		t.Errorf("expected approval despite empty pool, got %d calls", store.adminCalls)
	}
	if notifier.calls != 0 {
		t.Errorf("expected no notification without a code, got %d", notifier.calls)
	}
}

func TestAdminApprove_FailedClaimStaysClosed(t *testing.T) {
	check := approvalTestCheck()
	check.Status = models.CheckFailed
	store := &fakeApprovalStore{check: check}
	notifier := &fakeGiftCodeNotifier{}
	app := newApprovalApp(store, notifier)

	resp, body := get(t, app, "/review-checks/"+check.ID.String()+"/admin-approve?token=admin-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "can no longer be approved") {
		t.Errorf("expected closed-claim message, got: %s", body)
	}
	if store.adminCalls != 0 || store.assignCalls != 0 {
		t.Errorf("expected no writes against a failed claim, got %d approvals and %d assignments", store.adminCalls, store.assignCalls)
	}
	if check.Status != models.CheckFailed {
		t.Errorf("status = %q, want %q", check.Status, models.CheckFailed)
	}
	if notifier.calls != 0 {
		t.Errorf("expected no notification, got %d", notifier.calls)
	}
}

func TestAdminApprove_SecondUseIsNoop(t *testing.T) {
	check := approvalTestCheck()
	now := time.Now()
	check.AdminApprovedAt = &now
	store := &fakeApprovalStore{check: check}
	notifier := &fakeGiftCodeNotifier{}
	app := newApprovalApp(store, notifier)

	resp, body := get(t, app, "/review-checks/"+check.ID.String()+"/admin-approve?token=admin-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "already been approved") {
		t.Errorf("expected already-approved message, got: %s", body)
	}
	if store.assignCalls != 0 {
		t.Errorf("expected no gift code assignment, got %d", store.assignCalls)
	}
	if notifier.calls != 0 {
		t.Errorf("expected no notification, got %d", notifier.calls)
	}
}
