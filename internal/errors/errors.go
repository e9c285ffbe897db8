package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of client-visible API failure.
type ErrorCode string

const (
	// ErrCodeAuthRequired indicates there is no usable session.
	ErrCodeAuthRequired ErrorCode = "auth_required"
	// ErrCodeRefreshFailed indicates the access token could not be renewed; the session is gone.
	ErrCodeRefreshFailed ErrorCode = "refresh_failed"
	// ErrCodeValidation indicates the backend (or local validation) rejected the input.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodePermissionDenied indicates the principal may not perform the action.
	ErrCodePermissionDenied ErrorCode = "permission_denied"
	// ErrCodeNotFound indicates the resource does not exist.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeRateLimited indicates the backend throttled the caller.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeServer indicates a 5xx response.
	ErrCodeServer ErrorCode = "server"
	// ErrCodeConnectivity indicates no response was received.
	ErrCodeConnectivity ErrorCode = "connectivity"
	// ErrCodeRequest indicates the request could not be built or sent.
	ErrCodeRequest ErrorCode = "request"
	// ErrCodeUnknown covers any other status.
	ErrCodeUnknown ErrorCode = "unknown"
)

// RequiresReauth reports whether the code means the user has to sign in again.
func (c ErrorCode) RequiresReauth() bool {
	return c == ErrCodeAuthRequired || c == ErrCodeRefreshFailed
}

var userMessages = map[ErrorCode]string{
	ErrCodeAuthRequired:     "Authorization required.",
	ErrCodeRefreshFailed:    "Session expired. Please sign in again.",
	ErrCodeValidation:       "The request was invalid.",
	ErrCodePermissionDenied: "You do not have permission to perform this action.",
	ErrCodeNotFound:         "The requested resource was not found.",
	ErrCodeRateLimited:      "Too many requests. Please try again later.",
	ErrCodeServer:           "Internal server error. Please try again later.",
	ErrCodeConnectivity:     "Unable to connect to the server.",
	ErrCodeRequest:          "An error occurred while sending the request.",
	ErrCodeUnknown:          "An unexpected error occurred.",
}

// UserMessage returns the fixed notification text for a code.
func UserMessage(code ErrorCode) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return userMessages[ErrCodeUnknown]
}

// AppError represents a classified API failure with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the first offending field for validation errors (optional)
	Field string
	// Fields holds field-level messages reported by the backend (validation only)
	Fields map[string][]string
	// Status is the HTTP status code, zero when no response was received
	Status int
	// Notified is set once the failure has been surfaced to the user
	Notified bool
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// AuthRequired creates a new AuthRequired error.
func AuthRequired(message string) *AppError {
	return &AppError{Code: ErrCodeAuthRequired, Message: message, Status: http.StatusUnauthorized}
}

// RefreshFailed wraps the cause of a failed token refresh.
func RefreshFailed(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeRefreshFailed,
		Message: "refresh access token",
		Cause:   cause,
		Status:  GetStatus(cause),
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
		Fields:  map[string][]string{field: {message}},
	}
}

// Connectivity wraps a transport failure where no response was received.
func Connectivity(cause error) *AppError {
	return &AppError{Code: ErrCodeConnectivity, Message: UserMessage(ErrCodeConnectivity), Cause: cause}
}

// Request wraps a failure to build or encode a request.
func Request(cause error) *AppError {
	return &AppError{Code: ErrCodeRequest, Message: UserMessage(ErrCodeRequest), Cause: cause}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// CodeForStatus maps an HTTP status code to an error category. 401 maps to
// ErrCodeAuthRequired; callers that own the refresh protocol handle it before this.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeValidation
	case status == http.StatusUnauthorized:
		return ErrCodeAuthRequired
	case status == http.StatusForbidden:
		return ErrCodePermissionDenied
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case status >= http.StatusInternalServerError:
		return ErrCodeServer
	default:
		return ErrCodeUnknown
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsAuthRequired checks if an error is an AuthRequired error.
func IsAuthRequired(err error) bool {
	return isCode(err, ErrCodeAuthRequired)
}

// IsRefreshFailed checks if an error is a RefreshFailed error.
func IsRefreshFailed(err error) bool {
	return isCode(err, ErrCodeRefreshFailed)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsPermissionDenied checks if an error is a PermissionDenied error.
func IsPermissionDenied(err error) bool {
	return isCode(err, ErrCodePermissionDenied)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsRateLimited checks if an error is a RateLimited error.
func IsRateLimited(err error) bool {
	return isCode(err, ErrCodeRateLimited)
}

// IsServer checks if an error is a Server error.
func IsServer(err error) bool {
	return isCode(err, ErrCodeServer)
}

// IsConnectivity checks if an error is a Connectivity error.
func IsConnectivity(err error) bool {
	return isCode(err, ErrCodeConnectivity)
}

// IsUnauthorized reports whether err carries an HTTP 401 status or an auth category.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Status == http.StatusUnauthorized || appErr.Code.RequiresReauth()
}

// GetCode returns the outermost ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetStatus returns the HTTP status carried by err, or zero.
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// IsNotified reports whether any AppError in err's chain was already surfaced
// to the user.
func IsNotified(err error) bool {
	var appErr *AppError
	for errors.As(err, &appErr) {
		if appErr.Notified {
			return true
		}
		err = appErr.Cause
	}
	return false
}
