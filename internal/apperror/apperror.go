// Package apperror holds the error taxonomy shared by the match pipeline and
// the HTTP boundary that renders it.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the class of failure.
type ErrorCode string

const (
	ErrCodeValidation             ErrorCode = "VALIDATION_ERROR"
	ErrCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeAuthenticationExpired  ErrorCode = "AUTHENTICATION_EXPIRED"
	ErrCodeUpstreamUnavailable    ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamBadResponse    ErrorCode = "UPSTREAM_BAD_RESPONSE"
	ErrCodeUpstreamRequestFailed  ErrorCode = "UPSTREAM_REQUEST_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// FieldIssue points a validation failure at a single input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error type every layer returns to the HTTP boundary.
type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	Fields  []FieldIssue
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches on Code so callers can compare against the sentinel values below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidation             = &AppError{Code: ErrCodeValidation}
	ErrAuthenticationRequired = &AppError{Code: ErrCodeAuthenticationRequired}
	ErrAuthenticationExpired  = &AppError{Code: ErrCodeAuthenticationExpired}
	ErrUpstreamUnavailable    = &AppError{Code: ErrCodeUpstreamUnavailable}
	ErrUpstreamBadResponse    = &AppError{Code: ErrCodeUpstreamBadResponse}
	ErrUpstreamRequestFailed  = &AppError{Code: ErrCodeUpstreamRequestFailed}
)

// NewValidationError reports bad client input.
func NewValidationError(message string, fields ...FieldIssue) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
		Fields:  fields,
	}
}

// NewAuthenticationRequired reports a request without a session.
func NewAuthenticationRequired(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAuthenticationRequired,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewAuthenticationExpired reports a session the upstream no longer accepts.
func NewAuthenticationExpired(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAuthenticationExpired,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewUpstreamUnavailable wraps a transport failure talking to the upstream.
func NewUpstreamUnavailable(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: "Match upstream service unavailable",
		Status:  http.StatusBadGateway,
		cause:   cause,
	}
}

// NewUpstreamBadResponse reports an upstream body that is not JSON. The body
// itself is never attached.
func NewUpstreamBadResponse() *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamBadResponse,
		Message: "Match upstream returned invalid JSON",
		Status:  http.StatusBadGateway,
	}
}

// NewUpstreamRequestFailed reports a non-2xx upstream answer. Upstream 4xx
// collapse into 400, everything else into 502.
func NewUpstreamRequestFailed(message string, upstreamStatus int) *AppError {
	if message == "" {
		message = "Match upstream request failed"
	}
	return &AppError{
		Code:    ErrCodeUpstreamRequestFailed,
		Message: message,
		Status:  CollapseUpstreamStatus(upstreamStatus),
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		cause:   cause,
	}
}

// CollapseUpstreamStatus maps an upstream HTTP status onto the two statuses
// surfaced to API consumers.
func CollapseUpstreamStatus(status int) int {
	if status >= 400 && status < 500 {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err; unknown errors are 500.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
