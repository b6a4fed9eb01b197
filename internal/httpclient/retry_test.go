package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickPolicy(maxRetries int, codes ...int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
		RetryOn:    codes,
	}
}

// flakyBackend fails with status for the first failures requests, then answers 200
func flakyBackend(t *testing.T, failures int32, status int, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(hits, 1) <= failures {
			w.WriteHeader(status)
			return
		}
		_, _ = io.WriteString(w, "done")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRetry_RecoversFromRateLimit(t *testing.T) {
	var hits int32
	srv := flakyBackend(t, 2, http.StatusTooManyRequests, &hits)

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetries(quickPolicy(3, http.StatusTooManyRequests)).Build()
	require.NoError(t, err)

	resp, err := client.Do(&HTTPRequest{URL: srv.URL, Method: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, "done", string(resp.Body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestRetry_ResendsUploadBody(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "document bytes", string(body))
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetries(quickPolicy(2, http.StatusBadGateway)).Build()
	require.NoError(t, err)

	resp, err := client.Do(&HTTPRequest{URL: srv.URL, Method: http.MethodPost, Body: []byte("document bytes")})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRetry_BudgetExhausted(t *testing.T) {
	var hits int32
	srv := flakyBackend(t, 100, http.StatusServiceUnavailable, &hits)

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetries(quickPolicy(2, http.StatusServiceUnavailable)).Build()
	require.NoError(t, err)

	resp, err := client.Do(&HTTPRequest{URL: srv.URL, Method: http.MethodGet})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Contains(t, err.Error(), "after 3 attempt(s)")

	var httpErr *errorwrapper.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, errorwrapper.CategoryUpstream, errorwrapper.Categorize(err))
}

func TestRetry_NonRetryableStatusReturnedAsIs(t *testing.T) {
	var hits int32
	srv := flakyBackend(t, 100, http.StatusUnprocessableEntity, &hits)

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetries(quickPolicy(3, http.StatusServiceUnavailable)).Build()
	require.NoError(t, err)

	resp, err := client.Do(&HTTPRequest{URL: srv.URL, Method: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRetry_Backoff(t *testing.T) {
	r := newRetrier(RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}, zerolog.Nop())

	assert.Equal(t, 100*time.Millisecond, r.backoff(0, nil))
	assert.Equal(t, 200*time.Millisecond, r.backoff(1, nil))
	assert.Equal(t, 300*time.Millisecond, r.backoff(2, nil))
	assert.Equal(t, 300*time.Millisecond, r.backoff(40, nil))
}

func TestRetry_BackoffHonorsRetryAfter(t *testing.T) {
	r := newRetrier(RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: 5 * time.Second}, zerolog.Nop())

	withHeader := func(v string) *HTTPResponse {
		return &HTTPResponse{StatusCode: http.StatusTooManyRequests, Headers: map[string]string{"Retry-After": v}}
	}
	assert.Equal(t, 2*time.Second, r.backoff(0, withHeader("2")))
	assert.Equal(t, 5*time.Second, r.backoff(0, withHeader("120")), "capped by MaxDelay")
	assert.Equal(t, 100*time.Millisecond, r.backoff(0, withHeader("soon")), "unparseable header ignored")

	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	assert.Equal(t, time.Duration(0), r.backoff(0, withHeader(past)), "dates in the past mean retry now")
}

func TestRetry_JitterStaysWithinTenPercent(t *testing.T) {
	r := newRetrier(RetryPolicy{BaseDelay: time.Second, MaxDelay: time.Minute, Jitter: true}, zerolog.Nop())
	for i := 0; i < 20; i++ {
		d := r.backoff(1, nil)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.Less(t, d, 2200*time.Millisecond)
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	r := newRetrier(quickPolicy(5, http.StatusServiceUnavailable), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := r.run(ctx, func(*HTTPRequest) (*HTTPResponse, error) {
		calls++
		return &HTTPResponse{StatusCode: http.StatusOK}, nil
	}, &HTTPRequest{URL: "http://backend.invalid"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetry_TransportErrors(t *testing.T) {
	r := newRetrier(quickPolicy(2), zerolog.Nop())
	boom := errors.New("connection reset")

	calls := 0
	_, err := r.run(context.Background(), func(*HTTPRequest) (*HTTPResponse, error) {
		calls++
		return nil, boom
	}, &HTTPRequest{URL: "http://backend.invalid"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = r.run(context.Background(), func(*HTTPRequest) (*HTTPResponse, error) {
		calls++
		return nil, context.DeadlineExceeded
	}, &HTTPRequest{URL: "http://backend.invalid"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls, "deadlines are not retried")
}
