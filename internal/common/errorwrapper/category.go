package errorwrapper

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Category is the user-facing classification of a failure
type Category string

const (
	CategoryBadInput    Category = "bad_input"
	CategoryUpstream    Category = "upstream"
	CategoryTimeout     Category = "timeout"
	CategoryUnavailable Category = "unavailable"
	CategoryInternal    Category = "internal"
)

var categoryStatus = map[Category]int{
	CategoryBadInput:    http.StatusBadRequest,
	CategoryUpstream:    http.StatusBadGateway,
	CategoryTimeout:     http.StatusGatewayTimeout,
	CategoryUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatus is the status code returned to API clients for c
func (c Category) HTTPStatus() int {
	if status, ok := categoryStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Categorize classifies an error chain. Timeouts are checked first since a
// deadline usually surfaces wrapped in a network or HTTP error.
func Categorize(err error) Category {
	if err == nil {
		return ""
	}
	if isTimeout(err) {
		return CategoryTimeout
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnsupportedContent) {
		return CategoryBadInput
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return CategoryUnavailable
	}

	var httpErr *HTTPError
	var netErr *NetworkError
	if errors.As(err, &httpErr) || errors.As(err, &netErr) ||
		errors.Is(err, ErrUpstreamFailure) || errors.Is(err, ErrNetworkFailure) {
		return CategoryUpstream
	}
	return CategoryInternal
}

func isTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var httpErr *HTTPError
	return errors.As(err, &httpErr) &&
		(httpErr.StatusCode == http.StatusRequestTimeout || httpErr.StatusCode == http.StatusGatewayTimeout)
}
