package httpclient

import (
	"time"

	"github.com/rs/zerolog"
)

// HTTPClientBuilder assembles the client used to reach extraction and insights backends
type HTTPClientBuilder struct {
	config HTTPClientConfig
	retry  *RetryPolicy
	logger zerolog.Logger
}

// NewHTTPClientBuilder starts from DefaultHTTPClientConfig
func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

// WithTimeout bounds a single attempt, retries excluded
func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

func (b *HTTPClientBuilder) WithInsecureSkipVerify(skip bool) *HTTPClientBuilder {
	b.config.InsecureSkipVerify = skip
	return b
}

// WithFollowRedirects toggles redirect handling; see WithMaxRedirects for the limit
func (b *HTTPClientBuilder) WithFollowRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

func (b *HTTPClientBuilder) WithMaxRedirects(max int) *HTTPClientBuilder {
	b.config.MaxRedirects = max
	return b
}

func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithHeader adds a header sent on every request, e.g. a backend API key
func (b *HTTPClientBuilder) WithHeader(key, value string) *HTTPClientBuilder {
	if b.config.Headers == nil {
		b.config.Headers = make(map[string]string)
	}
	b.config.Headers[key] = value
	return b
}

// WithMaxContentSize caps response bodies in bytes, 0 for no limit
func (b *HTTPClientBuilder) WithMaxContentSize(size int) *HTTPClientBuilder {
	b.config.MaxContentSize = size
	return b
}

func (b *HTTPClientBuilder) WithHTTP2(enabled bool) *HTTPClientBuilder {
	b.config.EnableHTTP2 = enabled
	return b
}

// WithRetries installs policy; a policy with MaxRetries <= 0 leaves retries off
func (b *HTTPClientBuilder) WithRetries(policy RetryPolicy) *HTTPClientBuilder {
	b.retry = &policy
	return b
}

func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	client, err := NewHTTPClient(b.config, b.logger)
	if err != nil {
		return nil, err
	}
	if b.retry != nil && b.retry.MaxRetries > 0 {
		client.retrier = newRetrier(*b.retry, b.logger)
	}
	return client, nil
}
