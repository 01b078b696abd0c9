package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	// GLPI session & upstream
	ErrSessionInit      = errors.New("glpi session could not be initialised")
	ErrUpstream         = errors.New("glpi request failed")
	ErrInvalidPayload   = errors.New("glpi returned an unexpected payload")
	ErrNotJSON          = errors.New("glpi response is not valid JSON")
	ErrCatalogMissing   = errors.New("search options unavailable")
	ErrTicketsMissing   = errors.New("tickets unavailable")
	ErrNoGroupStrategy  = errors.New("no strategy links tickets to groups")
	ErrGroupNotFound    = errors.New("group not found for ticket")
	ErrAssignmentAbsent = errors.New("no assignment found for ticket")

	// Request validation
	ErrInvalidDateRange = errors.New("invalid date range")

	// Generic
	ErrNotFound     = errors.New("resource not found")
	ErrInternal     = errors.New("internal server error")
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUpstreamError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "UPSTREAM_ERROR",
		StatusCode: 502,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// CatalogLookup records what one listSearchOptions lookup returned during
// group strategy discovery. Raw is empty when the lookup failed.
type CatalogLookup struct {
	Entity string
	Raw    string
}

// DiscoveryError is returned when no group strategy matched. Its message
// dumps every catalog that was fetched.
type DiscoveryError struct {
	Lookups []CatalogLookup
}

func (e *DiscoveryError) Error() string {
	entities := make([]string, 0, len(e.Lookups))
	for _, p := range e.Lookups {
		entities = append(entities, p.Entity)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s after trying %s", ErrNoGroupStrategy, strings.Join(entities, ", "))
	for _, p := range e.Lookups {
		fmt.Fprintf(&b, "\n\n--- listSearchOptions/%s ---\n", p.Entity)
		b.WriteString(indentJSON(p.Raw))
	}
	return b.String()
}

func (e *DiscoveryError) Unwrap() error {
	return ErrNoGroupStrategy
}

func indentJSON(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
