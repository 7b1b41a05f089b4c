package email

import (
	"testing"

	"reviewgate/internal/config"
)

func TestNewService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		wantEnabled bool
	}{
		{
			name: "enabled when host and from configured",
			cfg: &config.Config{
				SMTPHost: "smtp.example.com",
				SMTPPort: 587,
				SMTPFrom: "noreply@example.com",
			},
			wantEnabled: true,
		},
		{
			name: "disabled when SMTPHost is empty",
			cfg: &config.Config{
				SMTPPort: 587,
				SMTPFrom: "noreply@example.com",
			},
			wantEnabled: false,
		},
		{
			name: "disabled when SMTPFrom is empty",
			cfg: &config.Config{
				SMTPHost: "smtp.example.com",
				SMTPPort: 587,
			},
			wantEnabled: false,
		},
		{
			name:        "disabled with empty config",
			cfg:         &config.Config{},
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.cfg)
			if s.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", s.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestSendEmailDisabledIsNoop(t *testing.T) {
	s := NewService(&config.Config{})

	if err := s.SendEmail([]string{"user@example.com"}, "subject", "<p>html</p>", "text"); err != nil {
		t.Errorf("disabled service should not error, got %v", err)
	}
}

func TestSendEmailNoRecipientsIsNoop(t *testing.T) {
	s := NewService(&config.Config{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		SMTPFrom: "noreply@example.com",
	})

	if err := s.SendEmail(nil, "subject", "html", "text"); err != nil {
		t.Errorf("empty recipient list should not error, got %v", err)
	}
}
