// Package mocks provides mock implementations for testing the storefront session client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockCredentialStore(ctrl)
//	store.EXPECT().Load(gomock.Any()).Return(auth.Credentials{}, nil)
package mocks

// Generate mock for CredentialStore interface from internal/ports package.
// This creates MockCredentialStore with methods for all CredentialStore interface methods:
// Load, Save, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/target/storefront/internal/ports CredentialStore

// Generate mock for Notifier interface from internal/ports package.
// This creates MockNotifier with methods for all Notifier interface methods:
// Notify
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notifier_mock.go github.com/target/storefront/internal/ports Notifier

// Generate mock for Authenticator interface from internal/apiclient package.
// This creates MockAuthenticator with methods for all Authenticator interface methods:
// AccessToken, HasRefreshToken, Refresh, Expire
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authenticator_mock.go github.com/target/storefront/internal/apiclient Authenticator
