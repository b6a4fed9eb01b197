package httpclient

import (
	"context"
	"time"
)

// HTTPClientConfig holds transport settings for calls to document backends
type HTTPClientConfig struct {
	Timeout             time.Duration
	InsecureSkipVerify  bool
	FollowRedirects     bool
	MaxRedirects        int
	Headers             map[string]string // sent on every request
	UserAgent           string
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	DialTimeout         time.Duration
	EnableHTTP2         bool
	MaxContentSize      int // bytes, 0 for no limit
}

// DefaultHTTPClientConfig suits a handful of long-lived backends: few hosts,
// large payloads in both directions.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             30 * time.Second,
		FollowRedirects:     true,
		MaxRedirects:        5,
		Headers:             make(map[string]string),
		UserAgent:           "docdiff/1.0",
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		EnableHTTP2:         true,
		MaxContentSize:      64 * 1024 * 1024,
	}
}

// HTTPRequest describes one outbound request. Body is kept as bytes so retries can resend it.
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
	Context context.Context
}

// HTTPResponse is a fully-read response
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
