package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/storefront/internal/domain/auth"
	apperrors "github.com/target/storefront/internal/errors"
)

// CredentialStore persists the token pair between process runs.
// Load returns zero Credentials and a nil error when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (domainauth.Credentials, error)
	Save(ctx context.Context, creds domainauth.Credentials) error
	Clear(ctx context.Context) error
}

// Notification is a user-facing message raised by the API client.
type Notification struct {
	Code    apperrors.ErrorCode
	Message string
	Status  int
}

// Notifier surfaces notifications to the user. One call per failed request.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
