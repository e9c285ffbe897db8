package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/target/storefront/internal/domain/auth"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*CredentialStore)(nil)
	_ ports.Notifier        = (*RecordingNotifier)(nil)
)

// CredentialStore is an in-memory credential store that counts calls and
// lets tests inject failures.
type CredentialStore struct {
	LoadErr  error
	SaveErr  error
	ClearErr error

	mu         sync.Mutex
	creds      domainauth.Credentials
	saveCalls  int
	clearCalls int
}

// NewCredentialStore returns a store pre-seeded with creds.
func NewCredentialStore(creds domainauth.Credentials) *CredentialStore {
	return &CredentialStore{creds: creds}
}

func (s *CredentialStore) Load(_ context.Context) (domainauth.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return domainauth.Credentials{}, s.LoadErr
	}
	return s.creds, nil
}

func (s *CredentialStore) Save(_ context.Context, creds domainauth.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.creds = creds
	return nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.creds = domainauth.Credentials{}
	return nil
}

// Stored returns the currently persisted credentials.
func (s *CredentialStore) Stored() domainauth.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// SaveCalls returns how many times Save was called.
func (s *CredentialStore) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}

// ClearCalls returns how many times Clear was called.
func (s *CredentialStore) ClearCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCalls
}

// RecordingNotifier keeps every notification it receives.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []ports.Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, note)
}

// Notifications returns a copy of the recorded notifications.
func (n *RecordingNotifier) Notifications() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ports.Notification, len(n.items))
	copy(out, n.items)
	return out
}

// Codes returns the recorded codes in arrival order.
func (n *RecordingNotifier) Codes() []apperrors.ErrorCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]apperrors.ErrorCode, 0, len(n.items))
	for _, item := range n.items {
		out = append(out, item.Code)
	}
	return out
}

// Reset drops recorded notifications.
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = nil
}
