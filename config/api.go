package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "http://localhost:8000"
	defaultAPITimeout = 10 * time.Second
)

// APIConfig contains configuration for the storefront backend API client.
type APIConfig struct {
	// BaseURL is the scheme and host of the backend (e.g., "https://shop.example.com").
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds a single HTTP round trip, retries included separately.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// UserAgent is sent on every request.
	UserAgent string `env:"USER_AGENT" envDefault:"storefront-client"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		a.BaseURL = defaultAPIBaseURL
	}
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
	a.UserAgent = strings.TrimSpace(a.UserAgent)
}
