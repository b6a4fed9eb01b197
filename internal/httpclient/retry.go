package httpclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// RetryPolicy describes how transient failures of the extraction and insights
// backends are retried. Requests are resent with doubling delays starting at
// BaseDelay; a Retry-After header on the failing response takes precedence.
type RetryPolicy struct {
	MaxRetries int           `json:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay"`
	Jitter     bool          `json:"jitter"`
	RetryOn    []int         `json:"retry_on"`
}

// DefaultRetryPolicy retries rate limiting and gateway failures
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   8 * time.Second,
		Jitter:     true,
		RetryOn: []int{
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

type retrier struct {
	policy    RetryPolicy
	retryable map[int]struct{}
	logger    zerolog.Logger
}

func newRetrier(policy RetryPolicy, logger zerolog.Logger) *retrier {
	retryable := make(map[int]struct{}, len(policy.RetryOn))
	for _, code := range policy.RetryOn {
		retryable[code] = struct{}{}
	}
	return &retrier{
		policy:    policy,
		retryable: retryable,
		logger:    logger.With().Str("component", "Retrier").Logger(),
	}
}

func (r *retrier) retries(status int) bool {
	_, ok := r.retryable[status]
	return ok
}

// backoff returns how long to wait before resending after the given attempt.
// resp may be nil when the attempt failed at the transport level.
func (r *retrier) backoff(attempt int, resp *HTTPResponse) time.Duration {
	if wait, ok := retryAfter(resp); ok {
		return r.capped(wait)
	}

	ceiling := r.policy.MaxDelay
	if ceiling <= 0 {
		ceiling = time.Hour
	}
	delay := r.policy.BaseDelay
	for i := 0; i < attempt && delay < ceiling; i++ {
		delay *= 2
	}
	delay = r.capped(delay)
	if r.policy.Jitter {
		if spread := int64(delay / 10); spread > 0 {
			delay += time.Duration(rand.Int63n(spread))
		}
	}
	return delay
}

func (r *retrier) capped(d time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case r.policy.MaxDelay > 0 && d > r.policy.MaxDelay:
		return r.policy.MaxDelay
	}
	return d
}

// retryAfter reads a Retry-After header given either in seconds or as an HTTP date
func retryAfter(resp *HTTPResponse) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	raw := strings.TrimSpace(resp.Headers["Retry-After"])
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(raw); err == nil {
		return time.Until(at), true
	}
	return 0, false
}

func (r *retrier) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// run sends req until it succeeds, fails permanently or the retry budget is spent.
// A response whose status is still retryable after the last attempt is returned
// together with an *errorwrapper.HTTPError.
func (r *retrier) run(ctx context.Context, send func(*HTTPRequest) (*HTTPResponse, error), req *HTTPRequest) (*HTTPResponse, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := send(req)
		exhausted := attempt >= r.policy.MaxRetries
		status := 0

		if err != nil {
			if exhausted || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, errorwrapper.WrapError(err, fmt.Sprintf("request failed after %d attempt(s)", attempt+1))
			}
		} else {
			if !r.retries(resp.StatusCode) {
				return resp, nil
			}
			if exhausted {
				return resp, errorwrapper.WrapError(CheckStatus(resp, req.URL),
					fmt.Sprintf("request failed after %d attempt(s)", attempt+1))
			}
			status = resp.StatusCode
		}

		delay := r.backoff(attempt, resp)
		r.logger.Warn().
			Err(err).
			Str("url", req.URL).
			Int("status_code", status).
			Int("attempt", attempt+1).
			Int("max_retries", r.policy.MaxRetries).
			Dur("delay", delay).
			Msg("Transient failure, retrying")

		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}
