package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation               = errors.New("validation failed")
	ErrNotFound                 = errors.New("not found")
	ErrUnauthenticated          = errors.New("unauthenticated")
	ErrForbidden                = errors.New("forbidden")
	ErrQuotaExceeded            = errors.New("daily scoring quota exceeded")
	ErrRateLimited              = errors.New("too many requests")
	ErrScoringProvider          = errors.New("scoring provider error")
	ErrScoringSchemaViolation   = errors.New("scoring response violates schema")
	ErrPersistence              = errors.New("scored but failed to save attempt")
	ErrRequestTimeout           = errors.New("request deadline exceeded")
	ErrTranscriptionUnavailable = errors.New("transcription unavailable")
)

// Error carries an HTTP status and a stable machine-readable code.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// QuotaExceededError is returned when a user has no reservations left for the day.
type QuotaExceededError struct {
	UserID    string
	Day       string
	Limit     int
	Remaining int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily scoring quota exceeded for user %s on %s (limit %d)", e.UserID, e.Day, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// Validation wraps a message as a validation error.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps a message as a not-found error.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error chain to the status and code returned to clients.
func HTTPStatus(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status, apiErr.Code
	}
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests, "quota_exceeded"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrScoringProvider), errors.Is(err, ErrScoringSchemaViolation):
		return http.StatusInternalServerError, "scoring_unavailable"
	case errors.Is(err, ErrPersistence):
		return http.StatusInternalServerError, "persist_error"
	case errors.Is(err, ErrRequestTimeout):
		return http.StatusGatewayTimeout, "request_timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
