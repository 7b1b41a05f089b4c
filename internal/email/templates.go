package email

import (
	"fmt"
	"html"

	"reviewgate/internal/config"
	"reviewgate/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .button:hover { background: #1d4ed8; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
        .success { color: #059669; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// FacilityApprovalURL builds the single-use facility-side approval link.
func (t *Templates) FacilityApprovalURL(check *models.ReviewCheck) string {
	return fmt.Sprintf("%s/review-checks/%s/facility-approve?token=%s",
		t.cfg.BaseURL, check.ID, check.FacilityApprovalToken)
}

// AdminApprovalURL builds the single-use admin-side approval link.
func (t *Templates) AdminApprovalURL(check *models.ReviewCheck) string {
	return fmt.Sprintf("%s/review-checks/%s/admin-approve?token=%s",
		t.cfg.BaseURL, check.ID, check.AdminApprovalToken)
}

// ReviewVerified generates the email sent to the facility contact when a
// claimed review has been found in the listing.
func (t *Templates) ReviewVerified(check *models.ReviewCheck, facility *models.Facility) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Review verified for %s", t.cfg.SiteTitle, facility.Name)

	url := t.FacilityApprovalURL(check)

	content := fmt.Sprintf(`
        <p>A review claimed for your facility has been verified against the listing.</p>

        <div class="info-box">
            <p><span class="label">Facility:</span> %s</p>
            <p><span class="label">Reviewer:</span> %s</p>
            <p><span class="label">Google account:</span> %s</p>
            <p><span class="label">Rating:</span> %d / 5</p>
        </div>

        <p>If the review looks legitimate, approve it below. The link can only be used once.</p>

        <p style="text-align: center;">
            <a href="%s" class="button">Approve Review</a>
        </p>
    `,
		html.EscapeString(facility.Name),
		html.EscapeString(check.ReviewerName),
		html.EscapeString(check.GoogleAccountName),
		check.ReviewStar,
		url,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Review verified for %s

Reviewer: %s
Google account: %s
Rating: %d / 5

Approve (single use): %s

--
%s
%s`,
		facility.Name,
		check.ReviewerName,
		check.GoogleAccountName,
		check.ReviewStar,
		url,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return subject, htmlBody, textBody
}

// AdminApprovalRequested generates the email sent to back-office admins when
// a claim needs the admin-side sign-off.
func (t *Templates) AdminApprovalRequested(check *models.ReviewCheck, facility *models.Facility) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Admin approval needed: %s", t.cfg.SiteTitle, facility.Name)

	url := t.AdminApprovalURL(check)

	content := fmt.Sprintf(`
        <p>A verified review claim is waiting for admin sign-off. Approving it
        completes the claim and releases a gift code to the reviewer.</p>

        <div class="info-box">
            <p><span class="label">Facility:</span> %s</p>
            <p><span class="label">Reviewer:</span> %s (%s)</p>
            <p><span class="label">Google account:</span> %s</p>
            <p><span class="label">Rating:</span> %d / 5</p>
        </div>

        <p style="text-align: center;">
            <a href="%s" class="button">Approve and Release Gift Code</a>
        </p>
    `,
		html.EscapeString(facility.Name),
		html.EscapeString(check.ReviewerName),
		html.EscapeString(check.Email),
		html.EscapeString(check.GoogleAccountName),
		check.ReviewStar,
		url,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Admin approval needed for %s

Reviewer: %s (%s)
Google account: %s
Rating: %d / 5

Approve (single use): %s

--
%s
%s`,
		facility.Name,
		check.ReviewerName,
		check.Email,
		check.GoogleAccountName,
		check.ReviewStar,
		url,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return subject, htmlBody, textBody
}

// GiftCodeIssued generates the email sent to the reviewer when their claim
// is fully approved and a gift code has been assigned.
func (t *Templates) GiftCodeIssued(check *models.ReviewCheck, code *models.GiftCode) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Your gift code", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Hi %s,</p>

        <p>Thank you for your review! Your claim has been approved and your
        gift code is below.</p>

        <div class="info-box">
            <p><span class="label">Gift code:</span> <code>%s</code></p>
            <p><span class="label">Amount:</span> %d</p>
        </div>
    `,
		html.EscapeString(check.ReviewerName),
		html.EscapeString(code.Code),
		code.Amount,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

Thank you for your review! Your claim has been approved.

Gift code: %s
Amount: %d

--
%s
%s`,
		check.ReviewerName,
		code.Code,
		code.Amount,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return subject, htmlBody, textBody
}
