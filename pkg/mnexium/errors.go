package mnexium

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the Mnexium client.
var (
	// ErrInvalidConfig indicates the client configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error wraps a client-side failure with the operation that produced it.
// Network failures, request building failures, and response decoding
// failures are reported through this type. HTTP-level rejections use
// APIError and its subtypes instead.
type Error struct {
	// Op is the operation that failed (e.g., "process", "memories.search").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("mnexium: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given operation and underlying
// error. Returns nil if err is nil.
func NewError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// APIError is returned when the Mnexium API answers with a non-success
// status. The specific categories below wrap an APIError and add their own
// type, so errors.As with a **APIError target matches any of them:
//
//	var apiErr *mnexium.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("status %d: %s", apiErr.StatusCode, apiErr.Message)
//	}
type APIError struct {
	// StatusCode is the HTTP status of the response. It is zero when the
	// failure happened without a status, such as a stream cut off mid-flight.
	StatusCode int

	// Code is the machine-readable error code from the response body, when
	// the server provided one.
	Code string

	// Message is the human-readable error description.
	Message string

	// Body is the raw response body, kept for diagnostics.
	Body []byte

	err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mnexium: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mnexium: API error: %s", e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.err
}

// AuthenticationError is returned when the API rejects the request's
// credentials (HTTP 401 or 403).
type AuthenticationError struct {
	*APIError
}

// Unwrap returns the wrapped APIError so errors.As matches either type.
func (e *AuthenticationError) Unwrap() error {
	return e.APIError
}

// NotFoundError is returned when the requested resource does not exist
// (HTTP 404).
type NotFoundError struct {
	*APIError
}

// Unwrap returns the wrapped APIError so errors.As matches either type.
func (e *NotFoundError) Unwrap() error {
	return e.APIError
}

// RateLimitError is returned when a usage limit is hit (HTTP 429). Current
// and Limit carry the server-reported counters when available. Rate-limited
// requests are retried automatically up to the configured retry budget; the
// error surfaces only once that budget is exhausted.
type RateLimitError struct {
	*APIError

	// Current is the usage counter reported by the server.
	Current int

	// Limit is the configured ceiling reported by the server.
	Limit int
}

// Unwrap returns the wrapped APIError so errors.As matches either type.
func (e *RateLimitError) Unwrap() error {
	return e.APIError
}

// ValidationError is returned for requests rejected locally, before any
// network traffic: an empty resource ID, a negative limit, a malformed
// option value. Semantic validation (slot existence, confidence ranges) is
// the server's job and surfaces as an APIError instead.
type ValidationError struct {
	// Message describes what was wrong with the request.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "mnexium: invalid request: " + e.Message
}

// newValidationError builds a ValidationError from a format string.
func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err indicates a missing resource.
//
// Example:
//
//	claim, err := user.Claims.Get(ctx, "location")
//	if mnexium.IsNotFound(err) {
//	    // nothing known yet
//	}
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsAuthentication reports whether err indicates rejected credentials.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsRateLimit reports whether err indicates an exhausted usage limit.
func IsRateLimit(err error) bool {
	var rateLimited *RateLimitError
	return errors.As(err, &rateLimited)
}

// newAPIError maps an HTTP error response onto the richest matching error
// type. The message is taken from the body's "message" field, then its
// "error" field, mirroring what the service actually sends.
func newAPIError(statusCode int, body []byte) error {
	message := "Unknown error"
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Current int    `json:"current"`
		Limit   int    `json:"limit"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			message = parsed.Message
		} else if parsed.Error != "" {
			message = parsed.Error
		}
	}

	apiErr := &APIError{
		StatusCode: statusCode,
		Code:       parsed.Error,
		Message:    message,
		Body:       body,
	}
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{APIError: apiErr}
	case http.StatusNotFound:
		return &NotFoundError{APIError: apiErr}
	case http.StatusTooManyRequests:
		return &RateLimitError{APIError: apiErr, Current: parsed.Current, Limit: parsed.Limit}
	}
	return apiErr
}

// streamInterrupted wraps a mid-stream read failure as an APIError with no
// status code, keeping the original error reachable through errors.As.
func streamInterrupted(err error) error {
	return &APIError{Message: "stream interrupted: " + err.Error(), err: err}
}
