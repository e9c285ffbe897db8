package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.IsDev {
		t.Errorf("expected production mode by default")
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Credentials.Store != CredentialStoreFile {
		t.Errorf("expected file store by default, got %q", cfg.Credentials.Store)
	}
	if cfg.Credentials.AccessTTL != 24*time.Hour {
		t.Errorf("unexpected access TTL %v", cfg.Credentials.AccessTTL)
	}
	if cfg.Credentials.RefreshTTL != 7*24*time.Hour {
		t.Errorf("unexpected refresh TTL %v", cfg.Credentials.RefreshTTL)
	}
	if !cfg.Credentials.Secure {
		t.Errorf("expected secure credentials outside dev mode")
	}
	if !strings.HasSuffix(cfg.Credentials.FilePath, filepath.Join(".storefront", "credentials.json")) {
		t.Errorf("unexpected credentials file %q", cfg.Credentials.FilePath)
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com/ ")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("CREDENTIALS_STORE", "REDIS")
	t.Setenv("CREDENTIALS_ACCESS_TTL", "15m")
	t.Setenv("CREDENTIALS_REFRESH_TTL", "72h")
	t.Setenv("CREDENTIALS_KEY_PREFIX", "shop:")
	t.Setenv("REDIS_URI", "redis://cache:6379/2")
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_METRICS_STATSD_ADDRESS", "statsd:8125")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "https://shop.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Credentials.Store != CredentialStoreRedis {
		t.Errorf("expected redis store, got %q", cfg.Credentials.Store)
	}
	if cfg.Credentials.AccessTTL != 15*time.Minute || cfg.Credentials.RefreshTTL != 72*time.Hour {
		t.Errorf("unexpected TTLs %v / %v", cfg.Credentials.AccessTTL, cfg.Credentials.RefreshTTL)
	}
	if cfg.Credentials.KeyPrefix != "shop:" {
		t.Errorf("unexpected key prefix %q", cfg.Credentials.KeyPrefix)
	}
	if cfg.Redis.URI != "redis://cache:6379/2" {
		t.Errorf("unexpected redis URI %q", cfg.Redis.URI)
	}
	if !cfg.Observability.Metrics.IsEnabled() {
		t.Errorf("expected metrics enabled")
	}
}

func TestCredentialStoreMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    CredentialStoreMode
		expectError bool
	}{
		{input: "memory", expected: CredentialStoreMemory},
		{input: " File ", expected: CredentialStoreFile},
		{input: "redis", expected: CredentialStoreRedis},
		{input: "cookie", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode CredentialStoreMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestCredentialsConfig_Sanitize(t *testing.T) {
	cfg := CredentialsConfig{
		AccessTTL:  2 * time.Hour,
		RefreshTTL: time.Hour,
		Secure:     true,
		KeyPrefix:  "  ",
		FilePath:   " /tmp/creds.json ",
	}

	cfg.Sanitize(true)

	if cfg.Store != CredentialStoreFile {
		t.Errorf("expected default store, got %q", cfg.Store)
	}
	if cfg.RefreshTTL != 2*time.Hour {
		t.Errorf("expected refresh TTL raised to access TTL, got %v", cfg.RefreshTTL)
	}
	if cfg.Secure {
		t.Errorf("expected secure disabled in dev mode")
	}
	if cfg.KeyPrefix != "storefront:credentials:" {
		t.Errorf("expected default key prefix, got %q", cfg.KeyPrefix)
	}
	if cfg.FilePath != "/tmp/creds.json" {
		t.Errorf("expected trimmed file path, got %q", cfg.FilePath)
	}
}

func TestAppConfig_DetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{Credentials: CredentialsConfig{Secure: true}}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatalf("expected dev mode from NODE_ENV")
	}
	if cfg.Credentials.Secure {
		t.Fatalf("expected secure credentials disabled in dev mode")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}
	if cfg.Prefix != "storefront" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}
