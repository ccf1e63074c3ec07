package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrMissingCredentials  = errors.New("admin credentials are not configured")
	ErrEmptyToken          = errors.New("login response contained no token")
	ErrNoStrategySucceeded = errors.New("no backend endpoint accepted the request")
)

// ValidationError is returned before any outbound call when a required
// field or identifier is missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Field + " is required"
}

func Required(field string) error {
	return &ValidationError{Field: field}
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AuthenticationError means the admin token could not be acquired.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" && e.Err != nil {
		return "authentication failed: " + e.Err.Error()
	}
	return "authentication failed: " + e.Message
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// UpstreamError carries a non-2xx backend status and the message derived
// from its body.
type UpstreamError struct {
	Status  int
	Message string
	Path    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// ParseError means a backend body was not the JSON we expected.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TemplateNotFoundError keeps the template's location for logs only; the
// message shown to clients does not include it.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return "certificate template not found"
}

// TimeoutError is raised when an outbound call exceeds its deadline.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// StatusOf maps an error from the taxonomy to the HTTP status the UI sees.
func StatusOf(err error) int {
	var (
		validationErr *ValidationError
		authErr       *AuthenticationError
		upstreamErr   *UpstreamError
		parseErr      *ParseError
		templateErr   *TemplateNotFoundError
		timeoutErr    *TimeoutError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &upstreamErr):
		if upstreamErr.Status < 400 {
			return http.StatusBadGateway
		}
		return upstreamErr.Status
	case errors.As(err, &templateErr):
		return http.StatusNotFound
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &parseErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsStatus reports whether err is an upstream error with one of the given statuses.
func IsStatus(err error, statuses ...int) bool {
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	for _, s := range statuses {
		if upstreamErr.Status == s {
			return true
		}
	}
	return false
}
