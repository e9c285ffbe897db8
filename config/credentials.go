package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CredentialStoreMode selects where access and refresh credentials are persisted.
type CredentialStoreMode string

const (
	// CredentialStoreMemory keeps credentials for the lifetime of the process only.
	CredentialStoreMemory CredentialStoreMode = "memory"
	// CredentialStoreFile persists credentials to a local file readable only by the owner.
	CredentialStoreFile CredentialStoreMode = "file"
	// CredentialStoreRedis persists credentials in Redis with per-entry TTLs.
	CredentialStoreRedis CredentialStoreMode = "redis"
)

const (
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultKeyPrefix  = "storefront:credentials:"
)

// UnmarshalText implements encoding.TextUnmarshaler for CredentialStoreMode.
func (m *CredentialStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch CredentialStoreMode(v) {
	case CredentialStoreMemory, CredentialStoreFile, CredentialStoreRedis:
		*m = CredentialStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid CredentialStoreMode: %q (valid options: memory, file, redis)", v)
	}
}

// CredentialsConfig controls credential persistence and the lifetime of each entry.
type CredentialsConfig struct {
	// Store selects the persistence backend.
	Store CredentialStoreMode `env:"STORE" envDefault:"file"`

	// FilePath is the credentials file used when Store=file.
	// Defaults to $HOME/.storefront/credentials.json.
	FilePath string `env:"FILE"`

	// AccessTTL is the lifetime of the persisted access credential.
	AccessTTL time.Duration `env:"ACCESS_TTL" envDefault:"24h"`

	// RefreshTTL is the lifetime of the persisted refresh credential.
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"168h"`

	// Secure marks persisted entries for secure transmission only.
	// Forced off in development mode.
	Secure bool `env:"SECURE" envDefault:"true"`

	// KeyPrefix namespaces Redis keys when Store=redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"storefront:credentials:"`
}

// Sanitize normalises credential settings. Development mode never marks entries secure,
// matching local HTTP backends.
func (c *CredentialsConfig) Sanitize(isDev bool) {
	if c.Store == "" {
		c.Store = CredentialStoreFile
	}
	if c.AccessTTL <= 0 {
		c.AccessTTL = defaultAccessTTL
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = defaultRefreshTTL
	}
	// The refresh credential must outlive the access credential.
	if c.RefreshTTL < c.AccessTTL {
		c.RefreshTTL = c.AccessTTL
	}
	if isDev {
		c.Secure = false
	}
	if c.KeyPrefix = strings.TrimSpace(c.KeyPrefix); c.KeyPrefix == "" {
		c.KeyPrefix = defaultKeyPrefix
	}
	if c.FilePath = strings.TrimSpace(c.FilePath); c.FilePath == "" {
		c.FilePath = defaultCredentialsFile()
	}
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".storefront", "credentials.json")
	}
	return filepath.Join(home, ".storefront", "credentials.json")
}
