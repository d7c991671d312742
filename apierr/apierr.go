package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means no user identity could be resolved for the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound is a generic sentinel for missing courses, lessons, challenges and users.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvariantViolation marks content-authoring defects such as a challenge without a correct option.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrTransient wraps connectivity or timeout failures from the persistent store.
	ErrTransient = errors.New("transient store failure")
)

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

// NotFound wraps ErrNotFound with the name of the missing entity.
func NotFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}

// Invariant wraps ErrInvariantViolation with a description of the broken content rule.
func Invariant(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvariantViolation)
}

// Transient wraps a store error so callers can decide whether to retry.
func Transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}

// Classify returns the HTTP status and machine code for err.
func Classify(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status, apiErr.Code
	}
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusUnprocessableEntity, "invalid_argument"
	case errors.Is(err, ErrInvariantViolation):
		return http.StatusInternalServerError, "content_invariant"
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
