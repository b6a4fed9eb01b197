// Package errorwrapper holds the error vocabulary shared by extraction, diffing,
// insights and the HTTP surface, and maps it onto client-facing categories.
package errorwrapper

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrTimeout            = errors.New("operation timed out")
	ErrUpstreamFailure    = errors.New("upstream failure")
	ErrNetworkFailure     = errors.New("network failure")
	// ErrServiceUnavailable marks work refused locally, e.g. by the resource limiter
	ErrServiceUnavailable = errors.New("service unavailable")
)

// WrapError prefixes err with message and keeps it in the chain.
// A nil err still yields a non-nil error so callers cannot lose a failure path.
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError rejects one request or config field. It always unwraps to ErrInvalidInput.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Value == nil || e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NetworkError is a transport failure talking to a backend
type NetworkError struct {
	URL    string
	Reason string
	Cause  error
}

func NewNetworkError(url, reason string, cause error) *NetworkError {
	return &NetworkError{URL: url, Reason: reason, Cause: cause}
}

func (e *NetworkError) Error() string {
	msg := fmt.Sprintf("%s (%s)", e.Reason, e.URL)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error {
	if e.Cause == nil {
		return ErrNetworkFailure
	}
	return e.Cause
}

// HTTPError is a non-2xx answer from a backend
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func NewHTTPErrorWithURL(statusCode int, message, url string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message, URL: url}
}

func (e *HTTPError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d for %s: %s", e.StatusCode, e.URL, e.Message)
}
