package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/ports"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

var _ ports.CredentialStore = (*FileStore)(nil)

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	Path   string                      // Required
	Policy domainauth.CredentialPolicy // Entry lifetimes and attributes
	Now    func() time.Time            // Optional, defaults to time.Now
}

// FileStore persists credentials as a JSON list of entries in a file only
// the owner can read.
type FileStore struct {
	path   string
	policy domainauth.CredentialPolicy
	now    func() time.Time

	mu sync.Mutex
}

// NewFileStore constructs a FileStore.
func NewFileStore(opts FileStoreOptions) (*FileStore, error) {
	if opts.Path == "" {
		return nil, errors.New("credentials file path is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &FileStore{path: opts.Path, policy: opts.Policy, now: now}, nil
}

// Path returns the credentials file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (domainauth.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domainauth.Credentials{}, nil
	}
	if err != nil {
		return domainauth.Credentials{}, fmt.Errorf("read credentials file: %w", err)
	}
	if len(data) == 0 {
		return domainauth.Credentials{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return domainauth.Credentials{}, fmt.Errorf("decode credentials file: %w", err)
	}
	return credentialsFrom(entries, s.now()), nil
}

func (s *FileStore) Save(_ context.Context, creds domainauth.Credentials) error {
	data, err := json.MarshalIndent(entriesFor(s.policy, creds, s.now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(data)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials file: %w", err)
	}
	return nil
}

// write replaces the file atomically so a crash never leaves half a token pair.
func (s *FileStore) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credentials file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}
	return nil
}
