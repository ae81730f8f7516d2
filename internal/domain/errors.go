package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotLoggedIn      = errors.New("not logged in (run 'zentasks login' first)")
	ErrSessionExpired   = errors.New("session expired (run 'zentasks login' again)")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrEmptyID          = errors.New("task id cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidQuadrant  = errors.New("invalid quadrant")
	ErrConfigExists     = errors.New("config file already exists")
	ErrNoAPIURL         = errors.New("api url is not configured")
)

// NetworkError is a transport failure: the request never produced an HTTP response.
// Its status is always 0.
type NetworkError struct {
	Err    error
	Method string
	URL    string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode returns 0.
func (e *NetworkError) StatusCode() int { return 0 }

// HTTPError is a non-2xx response. Message is the server-supplied message when present.
type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status %d", e.Status)
	}
	return fmt.Sprintf("http error %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Is maps status codes onto the domain sentinels.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrTaskNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}

// ValidationError reports required or malformed fields caught before a request is sent.
type ValidationError struct {
	Fields map[string]string // field name -> message
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StatusCode returns the HTTP status of err, or 0 when err carries none.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
