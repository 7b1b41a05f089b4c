package email

import (
	"context"
	"log"

	"reviewgate/internal/config"
	"reviewgate/internal/models"
)

// Notifier sends email notifications for review check lifecycle events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyClaimVerified sends the facility-side approval link to the facility
// contact and the admin-side approval link to the configured admin addresses.
func (n *Notifier) NotifyClaimVerified(ctx context.Context, check *models.ReviewCheck, facility *models.Facility) {
	if !n.service.IsEnabled() {
		return
	}

	if facility.ContactEmail != "" {
		subject, htmlBody, textBody := n.templates.ReviewVerified(check, facility)
		n.service.SendAsync([]string{facility.ContactEmail}, subject, htmlBody, textBody)
	} else {
		log.Printf("Facility %s has no contact email; skipping approval notification", facility.ID)
	}

	admins := n.cfg.AdminEmailList()
	if len(admins) == 0 {
		log.Println("No admin emails configured; skipping admin approval notification")
		return
	}

	subject, htmlBody, textBody := n.templates.AdminApprovalRequested(check, facility)
	n.service.SendAsync(admins, subject, htmlBody, textBody)
}

// NotifyGiftCodeIssued sends the assigned gift code to the reviewer.
func (n *Notifier) NotifyGiftCodeIssued(ctx context.Context, check *models.ReviewCheck, code *models.GiftCode) {
	if !n.service.IsEnabled() {
		return
	}

	if check.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.GiftCodeIssued(check, code)
	n.service.SendAsync([]string{check.Email}, subject, htmlBody, textBody)
}
