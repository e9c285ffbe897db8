// Package apiclient is the decorated HTTP client every storefront call goes through.
// It attaches the bearer token, classifies failures into user-facing categories,
// and runs the refresh-and-retry-once protocol on 401 responses.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/observability/metrics"
	"github.com/target/storefront/internal/ports"
)

const (
	defaultTimeout   = 10 * time.Second
	requestIDHeader  = "X-Request-ID"
	maxResponseBytes = 10 << 20
)

// ErrSessionChanged is returned by Authenticator.Refresh when the session was
// replaced (a new login) or ended while the refresh was in flight. The newer
// session is left alone.
var ErrSessionChanged = errors.New("session changed during refresh")

// Authenticator owns the session the client decorates requests with.
type Authenticator interface {
	// AccessToken returns the current access token, or "" when signed out.
	AccessToken() string
	// HasRefreshToken reports whether a refresh can be attempted.
	HasRefreshToken() bool
	// Refresh obtains a new access token. On failure the session is already
	// cleared, unless the error wraps ErrSessionChanged.
	Refresh(ctx context.Context) (string, error)
	// Expire clears the session after a terminal authorization failure.
	Expire(ctx context.Context, reason apperrors.ErrorCode)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	Logger     *slog.Logger
	Notifier   ports.Notifier
	Metrics    *metrics.APIMetrics
}

// Client issues requests against the storefront backend.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
	notifier  ports.Notifier
	metrics   *metrics.APIMetrics

	mu   sync.RWMutex
	auth Authenticator
}

// New constructs a Client. The Authenticator is attached later with SetAuthenticator.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("apiclient: base URL is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   base,
		userAgent: opts.UserAgent,
		http:      hc,
		logger:    logger.With("component", "apiclient"),
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
	}, nil
}

// SetAuthenticator attaches the session owner. Passing nil detaches it.
func (c *Client) SetAuthenticator(a Authenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = a
}

func (c *Client) authenticator() Authenticator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

// Do sends req and decodes a 2xx JSON body into out (when non-nil).
// A 401 is answered with one refresh and one re-issue; every other failure
// is returned as an *errors.AppError and surfaced through the Notifier.
func (c *Client) Do(ctx context.Context, req *Request, out any) (*Response, error) {
	start := time.Now()
	resp, err := c.do(ctx, req)
	if err == nil && out != nil && len(resp.Body) > 0 {
		if decodeErr := json.Unmarshal(resp.Body, out); decodeErr != nil {
			appErr := apperrors.Wrapf(decodeErr, apperrors.ErrCodeUnknown, "decode %s %s response", req.Method, req.Path)
			appErr.Status = resp.StatusCode
			err = c.fail(ctx, appErr)
		}
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.ObserveRequest(metrics.RequestMetric{
		Method:   req.Method,
		Endpoint: req.route(),
		Status:   status,
		Retried:  req.retried,
		Duration: time.Since(start),
		Err:      err,
	})
	return resp, err
}

func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	if err := req.encode(); err != nil {
		return nil, c.fail(ctx, apperrors.Request(err))
	}

	requestID := uuid.NewString()
	var token string
	if a := c.authenticator(); a != nil && !req.Anonymous {
		token = a.AccessToken()
	}

	resp, err := c.send(ctx, req, token, requestID)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp, err = c.handleUnauthorized(ctx, req, resp, requestID)
		if err != nil {
			return resp, err
		}
	}
	if !resp.OK() {
		return resp, c.fail(ctx, classify(resp))
	}
	return resp, nil
}

// handleUnauthorized runs the RETRYING side transition for a 401.
func (c *Client) handleUnauthorized(ctx context.Context, req *Request, resp *Response, requestID string) (*Response, error) {
	a := c.authenticator()

	switch {
	case req.isRefresh():
		// Never refresh the refresh call itself.
		c.expire(ctx, req, a, apperrors.ErrCodeRefreshFailed)
		return resp, c.fail(ctx, reauthError(apperrors.ErrCodeRefreshFailed, resp))
	case req.NoAuthRetry || a == nil:
		return resp, c.fail(ctx, reauthError(apperrors.ErrCodeAuthRequired, resp))
	case req.retried:
		c.logger.WarnContext(ctx, "retried request still unauthorized", "method", req.Method, "path", req.Path, "request_id", requestID)
		c.expire(ctx, req, a, apperrors.ErrCodeAuthRequired)
		return resp, c.fail(ctx, reauthError(apperrors.ErrCodeAuthRequired, resp))
	case !a.HasRefreshToken():
		c.expire(ctx, req, a, apperrors.ErrCodeAuthRequired)
		return resp, c.fail(ctx, reauthError(apperrors.ErrCodeAuthRequired, resp))
	}

	req.retried = true
	token, err := a.Refresh(WithoutNotifications(ctx))
	switch {
	case errors.Is(err, ErrSessionChanged):
		// Another login replaced the session; retry once with whatever it holds now.
		token = a.AccessToken()
		if token == "" {
			return resp, c.fail(ctx, reauthError(apperrors.ErrCodeAuthRequired, resp))
		}
		c.logger.DebugContext(ctx, "session changed during refresh; retrying with current token", "path", req.Path, "request_id", requestID)
	case err != nil:
		c.logger.WarnContext(ctx, "token refresh failed; session cleared", "path", req.Path, "request_id", requestID, "error", err)
		c.expire(ctx, req, a, apperrors.ErrCodeRefreshFailed)
		if !apperrors.IsRefreshFailed(err) {
			err = apperrors.RefreshFailed(err)
		}
		return nil, c.fail(ctx, err)
	}

	c.metrics.Retry(req.route())
	c.logger.DebugContext(ctx, "re-issuing request after refresh", "method", req.Method, "path", req.Path, "request_id", requestID)

	retry, err := c.send(ctx, req, token, requestID)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	if retry.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(ctx, req, retry, requestID)
	}
	return retry, nil
}

func (c *Client) expire(ctx context.Context, req *Request, a Authenticator, reason apperrors.ErrorCode) {
	if a == nil || req.KeepSession {
		return
	}
	a.Expire(ctx, reason)
}

// send performs one HTTP round trip. Transport failures become connectivity
// errors; failures to build the request become request errors.
func (c *Client) send(ctx context.Context, req *Request, token, requestID string) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, req.body())
	if err != nil {
		return nil, apperrors.Request(fmt.Errorf("build %s %s: %w", req.Method, req.Path, err))
	}
	if req.payload != nil {
		httpReq.ContentLength = int64(len(req.payload))
	}
	c.decorate(httpReq, req, token, requestID)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.Connectivity(fmt.Errorf("%s %s: %w", req.Method, req.Path, err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Connectivity(fmt.Errorf("read %s %s response: %w", req.Method, req.Path, err))
	}

	c.logger.DebugContext(ctx, "api response",
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"request_id", requestID,
		"retried", req.retried,
	)
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}, nil
}

// decorate applies the request interceptor: caller headers, content type,
// bearer token and correlation id.
func (c *Client) decorate(httpReq *http.Request, req *Request, token, requestID string) {
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", jsonContentType)
	if req.contentType != "" {
		// Multipart bodies carry their boundary; a JSON content type would break parsing.
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set(requestIDHeader, requestID)
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
}

// fail surfaces err through the Notifier (once), marks it notified and returns it.
func (c *Client) fail(ctx context.Context, err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, apperrors.ErrCodeUnknown, apperrors.UserMessage(apperrors.ErrCodeUnknown))
		err = appErr
	}
	if c.notifier != nil && !notificationsSuppressed(ctx) {
		c.notifier.Notify(ctx, ports.Notification{
			Code:    appErr.Code,
			Message: notificationMessage(appErr),
			Status:  appErr.Status,
		})
		appErr.Notified = true
	}
	return err
}

func notificationMessage(appErr *apperrors.AppError) string {
	if appErr.Code == apperrors.ErrCodeValidation && appErr.Message != "" {
		return appErr.Message
	}
	return apperrors.UserMessage(appErr.Code)
}

func reauthError(code apperrors.ErrorCode, resp *Response) *apperrors.AppError {
	appErr := &apperrors.AppError{Code: code, Message: apperrors.UserMessage(code), Status: http.StatusUnauthorized}
	if resp != nil {
		if detail, _, _ := extractValidation(resp.Body); detail != "" {
			appErr.Cause = errors.New(detail)
		}
	}
	return appErr
}

type quietKey struct{}

// WithoutNotifications returns a context whose failed calls are not surfaced
// through the Notifier. The retry protocol uses it for the nested refresh so
// the outer call reports the failure once; logout uses it as a best-effort call.
func WithoutNotifications(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func notificationsSuppressed(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}
