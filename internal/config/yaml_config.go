package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultScheduleOffsets is the verification backoff used when no schedule is
// configured: one attempt right away, then spaced retries.
var DefaultScheduleOffsets = []time.Duration{
	0,
	15 * time.Minute,
	time.Hour,
	6 * time.Hour,
	24 * time.Hour,
}

// YAMLConfig represents the structure of the config.yaml file.
// Complex hierarchical config that's easier to manage in YAML than env vars.
type YAMLConfig struct {
	Verticals    []VerticalConfig   `yaml:"verticals"`
	Verification VerificationConfig `yaml:"verification"`
}

// VerticalConfig defines one branded vertical of the platform.
type VerticalConfig struct {
	Slug    string `yaml:"slug"`
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline,omitempty"`
}

// VerificationConfig defines the re-check schedule for review claims.
type VerificationConfig struct {
	// Schedule lists offsets from claim creation at which verification
	// tasks are scheduled, e.g. ["0s", "15m", "1h", "24h"].
	Schedule []string `yaml:"schedule"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetVerticalBySlug finds a vertical by its slug.
func (c *YAMLConfig) GetVerticalBySlug(slug string) *VerticalConfig {
	if c == nil {
		return nil
	}
	for i := range c.Verticals {
		if c.Verticals[i].Slug == slug {
			return &c.Verticals[i]
		}
	}
	return nil
}

// ScheduleOffsets parses the configured verification schedule. Falls back to
// DefaultScheduleOffsets when no schedule is configured.
func (c *YAMLConfig) ScheduleOffsets() ([]time.Duration, error) {
	if c == nil || len(c.Verification.Schedule) == 0 {
		return DefaultScheduleOffsets, nil
	}

	offsets := make([]time.Duration, 0, len(c.Verification.Schedule))
	for _, s := range c.Verification.Schedule {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule offset %q: %w", s, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid schedule offset %q: must not be negative", s)
		}
		offsets = append(offsets, d)
	}
	return offsets, nil
}
