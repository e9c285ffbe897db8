package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/target/storefront/internal/apiclient"
	domainauth "github.com/target/storefront/internal/domain/auth"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/observability/metrics"
	"github.com/target/storefront/internal/ports"
)

// APIClient is the decorated HTTP client the session manager and the
// storefront services call through.
type APIClient interface {
	Do(ctx context.Context, req *apiclient.Request, out any) (*apiclient.Response, error)
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	SetAuthenticator(a apiclient.Authenticator)
}

// Telemetry groups optional logging and metrics dependencies.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics *metrics.APIMetrics
}

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Client    APIClient             // Required
	Store     ports.CredentialStore // Required
	Telemetry Telemetry             // Optional
}

// Reasons a session is cleared, used for logs, metrics and listeners.
const (
	ClearReasonLogout        = "logout"
	ClearReasonRefreshFailed = string(apperrors.ErrCodeRefreshFailed)
	ClearReasonAuthRequired  = string(apperrors.ErrCodeAuthRequired)
	ClearReasonRestoreFailed = "restore_failed"
)

const refreshKey = "refresh"

// SessionManager owns the client session: the token pair, the signed-in
// user, and the refresh protocol. It is the only writer of persisted
// credentials; everything else reads snapshots.
type SessionManager struct {
	client  APIClient
	store   ports.CredentialStore
	logger  *slog.Logger
	metrics *metrics.APIMetrics

	mu        sync.RWMutex
	session   domainauth.Session
	listeners []func(reason string)

	initOnce sync.Once
	initDone chan struct{}
	initErr  error

	refreshes singleflight.Group
}

var _ apiclient.Authenticator = (*SessionManager)(nil)

// NewSessionManager constructs a SessionManager and attaches it to the client
// as its Authenticator.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	if opts.Store == nil {
		panic("CredentialStore is required")
	}
	logger := opts.Telemetry.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &SessionManager{
		client:   opts.Client,
		store:    opts.Store,
		logger:   logger.With("component", "session"),
		metrics:  opts.Telemetry.Metrics,
		initDone: make(chan struct{}),
	}
	opts.Client.SetAuthenticator(m)
	return m
}

// Initialize restores a persisted session once. Concurrent and later calls
// wait for the first to finish and return its result. The returned error
// explains why a persisted session was discarded; the manager is initialized
// either way.
func (m *SessionManager) Initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		defer func() {
			m.mu.Lock()
			m.session.Initialized = true
			m.mu.Unlock()
			close(m.initDone)
		}()
		m.initErr = m.restore(ctx)
	})
	<-m.initDone
	return m.initErr
}

// Initialized is closed once Initialize has completed.
func (m *SessionManager) Initialized() <-chan struct{} {
	return m.initDone
}

func (m *SessionManager) restore(ctx context.Context) error {
	creds, err := m.store.Load(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to load persisted credentials", "error", err)
		return fmt.Errorf("load credentials: %w", err)
	}
	if creds.RefreshToken == "" {
		if creds.AccessToken != "" {
			m.clear(ctx, ClearReasonRestoreFailed)
		}
		return nil
	}

	m.mu.Lock()
	m.session.AccessToken = creds.AccessToken
	m.session.RefreshToken = creds.RefreshToken
	m.mu.Unlock()

	if exp, ok := domainauth.TokenExpiry(creds.AccessToken); ok {
		m.logger.DebugContext(ctx, "restoring session", "access_token_exp", exp)
	}

	// The access entry outlived its TTL; mint a new one before fetching the profile.
	if creds.AccessToken == "" {
		if _, err := m.RefreshAccessToken(ctx); err != nil {
			m.logger.InfoContext(ctx, "persisted session discarded", "error", err)
			return fmt.Errorf("restore session: %w", err)
		}
	}

	// A 401 here goes through the client's refresh-and-retry.
	var user domainauth.User
	if err := m.client.Get(ctx, apiclient.ProfilePath, nil, &user); err != nil {
		m.logger.InfoContext(ctx, "persisted session discarded", "error", err)
		m.clear(ctx, ClearReasonRestoreFailed)
		return fmt.Errorf("restore session: %w", err)
	}

	m.mu.Lock()
	if m.session.AccessToken != "" {
		m.session.User = &user
	}
	m.mu.Unlock()
	m.logger.InfoContext(ctx, "session restored", "user_id", user.ID)
	return nil
}

// Login exchanges credentials for a token pair. On failure the error is
// returned unchanged and the existing session is untouched.
func (m *SessionManager) Login(ctx context.Context, in domainauth.LoginInput) (*domainauth.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return m.authenticate(ctx, apiclient.LoginPath, in)
}

// Register creates an account and signs it in.
func (m *SessionManager) Register(ctx context.Context, in domainauth.RegisterInput) (*domainauth.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return m.authenticate(ctx, apiclient.RegisterPath, in)
}

func (m *SessionManager) authenticate(ctx context.Context, path string, body any) (*domainauth.User, error) {
	req := &apiclient.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		NoAuthRetry: true,
		Anonymous:   true,
	}
	var resp domainauth.AuthResponse
	if _, err := m.client.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.Access == "" || resp.Refresh == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnknown, "authentication response is missing the user or tokens")
	}

	creds := domainauth.Credentials{AccessToken: resp.Access, RefreshToken: resp.Refresh}
	if err := m.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("persist credentials: %w", err)
	}

	user := *resp.User
	m.mu.Lock()
	m.session.AccessToken = creds.AccessToken
	m.session.RefreshToken = creds.RefreshToken
	m.session.User = &user
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "signed in", "user_id", user.ID, "endpoint", path)
	out := user
	return &out, nil
}

// Logout tells the backend to revoke the refresh token (best effort) and
// clears the session. The returned error only reports a failure to clear
// persisted credentials; the in-memory session is always cleared.
func (m *SessionManager) Logout(ctx context.Context) error {
	if refresh := m.refreshToken(); refresh != "" {
		req := &apiclient.Request{
			Method:      http.MethodPost,
			Path:        apiclient.LogoutPath,
			Body:        domainauth.LogoutRequest{RefreshToken: refresh},
			NoAuthRetry: true,
		}
		if _, err := m.client.Do(apiclient.WithoutNotifications(ctx), req, nil); err != nil {
			m.logger.WarnContext(ctx, "logout request failed; clearing local session anyway", "error", err)
		}
	}
	return m.clear(ctx, ClearReasonLogout)
}

// RefreshAccessToken obtains a new access token with the held refresh token.
// Without a refresh token it fails at once with an auth_required error and
// sends nothing. Concurrent callers share one in-flight refresh. Any failure
// clears the whole session, unless the session was replaced while the refresh
// ran; that error wraps apiclient.ErrSessionChanged and leaves the new session.
func (m *SessionManager) RefreshAccessToken(ctx context.Context) (string, error) {
	if !m.HasRefreshToken() {
		return "", apperrors.AuthRequired("no refresh token held")
	}

	// Detach from the first caller's cancellation; every waiter shares the result.
	shared := context.WithoutCancel(ctx)
	v, err, _ := m.refreshes.Do(refreshKey, func() (any, error) {
		return m.refresh(shared)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *SessionManager) refresh(ctx context.Context) (string, error) {
	refresh := m.refreshToken()
	if refresh == "" {
		return "", apperrors.AuthRequired("no refresh token held")
	}

	req := &apiclient.Request{
		Method:      http.MethodPost,
		Path:        apiclient.RefreshPath,
		Body:        domainauth.RefreshRequest{Refresh: refresh},
		Anonymous:   true,
		KeepSession: true,
	}
	var out domainauth.RefreshResponse
	_, err := m.client.Do(ctx, req, &out)
	if err == nil && out.Access == "" {
		err = apperrors.New(apperrors.ErrCodeUnknown, "refresh response is missing the access token")
	}
	if err != nil {
		m.metrics.Refresh(err)
		if m.refreshToken() != refresh {
			m.logger.InfoContext(ctx, "stale refresh failed after the session changed", "error", err)
			return "", sessionChanged()
		}
		m.logger.WarnContext(ctx, "access token refresh failed", "error", err)
		m.clear(ctx, ClearReasonRefreshFailed)
		return "", apperrors.RefreshFailed(err)
	}

	m.mu.Lock()
	if m.session.RefreshToken != refresh {
		m.mu.Unlock()
		err := sessionChanged()
		m.metrics.Refresh(err)
		m.logger.DebugContext(ctx, "discarding refreshed token for a replaced session")
		return "", err
	}
	m.session.AccessToken = out.Access
	m.mu.Unlock()

	if err := m.store.Save(ctx, domainauth.Credentials{AccessToken: out.Access, RefreshToken: refresh}); err != nil {
		m.logger.WarnContext(ctx, "failed to persist refreshed access token", "error", err)
	}
	m.metrics.Refresh(nil)
	m.logger.DebugContext(ctx, "access token refreshed")
	return out.Access, nil
}

// sessionChanged reports a refresh whose session was replaced or ended while it ran.
func sessionChanged() error {
	return apperrors.Wrap(apiclient.ErrSessionChanged, apperrors.ErrCodeAuthRequired, "refresh access token")
}

// UpdateProfile replaces the editable profile fields (PUT).
func (m *SessionManager) UpdateProfile(ctx context.Context, in domainauth.ProfileInput) (*domainauth.User, error) {
	var user domainauth.User
	if err := m.client.Put(ctx, apiclient.ProfilePath, in, &user); err != nil {
		return nil, err
	}
	return m.adoptUser(user), nil
}

// PatchProfile updates only the provided profile fields (PATCH).
func (m *SessionManager) PatchProfile(ctx context.Context, in domainauth.ProfileInput) (*domainauth.User, error) {
	var user domainauth.User
	if err := m.client.Patch(ctx, apiclient.ProfilePath, in, &user); err != nil {
		return nil, err
	}
	return m.adoptUser(user), nil
}

// ReloadProfile refetches the signed-in user. It returns nil, nil when signed out.
func (m *SessionManager) ReloadProfile(ctx context.Context) (*domainauth.User, error) {
	if !m.IsAuthenticated() {
		return nil, nil
	}
	var user domainauth.User
	if err := m.client.Get(ctx, apiclient.ProfilePath, nil, &user); err != nil {
		return nil, err
	}
	return m.adoptUser(user), nil
}

// ChangePassword changes the account password and returns the backend's message.
func (m *SessionManager) ChangePassword(ctx context.Context, in domainauth.ChangePasswordInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	var resp domainauth.MessageResponse
	if err := m.client.Put(ctx, apiclient.ChangePasswordPath, in, &resp); err != nil {
		return "", err
	}
	if resp.Message != "" {
		return resp.Message, nil
	}
	return resp.Detail, nil
}

// adoptUser stores user when a session is still held and returns a copy.
func (m *SessionManager) adoptUser(user domainauth.User) *domainauth.User {
	m.mu.Lock()
	if m.session.AccessToken != "" {
		stored := user
		m.session.User = &stored
	}
	m.mu.Unlock()
	return &user
}

// IsAuthenticated reports whether both an access token and a user are held.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated()
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *SessionManager) CurrentUser() *domainauth.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.User == nil {
		return nil
	}
	u := *m.session.User
	return &u
}

// Snapshot returns a read-only copy of the session.
func (m *SessionManager) Snapshot() domainauth.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// OnCleared registers fn to run after the session is cleared for any reason.
func (m *SessionManager) OnCleared(fn func(reason string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// AccessToken implements apiclient.Authenticator.
func (m *SessionManager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

// HasRefreshToken implements apiclient.Authenticator.
func (m *SessionManager) HasRefreshToken() bool {
	return m.refreshToken() != ""
}

// Refresh implements apiclient.Authenticator.
func (m *SessionManager) Refresh(ctx context.Context) (string, error) {
	return m.RefreshAccessToken(ctx)
}

// Expire implements apiclient.Authenticator.
func (m *SessionManager) Expire(ctx context.Context, reason apperrors.ErrorCode) {
	if err := m.clear(ctx, string(reason)); err != nil {
		m.logger.WarnContext(ctx, "failed to clear persisted credentials", "reason", reason, "error", err)
	}
}

func (m *SessionManager) refreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.RefreshToken
}

// clear drops the in-memory session and the persisted credentials. Listeners
// and metrics fire only when something was actually held.
func (m *SessionManager) clear(ctx context.Context, reason string) error {
	m.mu.Lock()
	held := m.session.AccessToken != "" || m.session.RefreshToken != "" || m.session.User != nil
	m.session.AccessToken = ""
	m.session.RefreshToken = ""
	m.session.User = nil
	listeners := append([]func(string){}, m.listeners...)
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	if err != nil {
		err = fmt.Errorf("clear credentials: %w", err)
	}

	if held {
		m.metrics.SessionCleared(reason)
		m.logger.InfoContext(ctx, "session cleared", "reason", reason)
		for _, fn := range listeners {
			fn(reason)
		}
	}
	return err
}

// IsReauthRequired reports whether err means the user must sign in again.
func IsReauthRequired(err error) bool {
	return apperrors.GetCode(err).RequiresReauth()
}
