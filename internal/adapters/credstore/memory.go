package credstore

import (
	"context"
	"slices"
	"sync"
	"time"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/ports"
)

var _ ports.CredentialStore = (*MemoryStore)(nil)

// MemoryStore keeps credentials for the life of the process.
type MemoryStore struct {
	policy domainauth.CredentialPolicy
	now    func() time.Time

	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore returns an empty store. A nil now uses time.Now.
func NewMemoryStore(policy domainauth.CredentialPolicy, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{policy: policy, now: now}
}

func (s *MemoryStore) Load(_ context.Context) (domainauth.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return credentialsFrom(s.entries, s.now()), nil
}

func (s *MemoryStore) Save(_ context.Context, creds domainauth.Credentials) error {
	entries := entriesFor(s.policy, creds, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Entries returns a copy of the stored entries, expired ones included.
func (s *MemoryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}
