package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrQuotaExhausted is returned when the window call quota has been used up.
var ErrQuotaExhausted = errors.New("catalog API quota exhausted")

// RateLimiter combines a token bucket for burst control with a call quota
// over a rolling window. The window starts at construction and restarts
// once it has elapsed.
type RateLimiter struct {
	limiter  *rate.Limiter
	used     atomic.Int64
	maxCalls int64
	window   time.Duration
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// WithQuota caps calls per window. A maxCalls of zero disables the quota.
func WithQuota(maxCalls int64, window time.Duration) RateLimiterOption {
	return func(r *RateLimiter) {
		r.maxCalls = maxCalls
		if window > 0 {
			r.window = window
		}
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls with the given
// burst.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		window:  time.Hour,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(r.window)
	return r
}

// Wait blocks until a call is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.checkReset()

	if r.maxCalls > 0 && r.used.Load() >= r.maxCalls {
		return fmt.Errorf("%w (%d/%d)", ErrQuotaExhausted, r.used.Load(), r.maxCalls)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.used.Add(1)
	return nil
}

// Used returns the number of calls made in the current window.
func (r *RateLimiter) Used() int64 {
	return r.used.Load()
}

// MaxCalls returns the configured window quota; zero means unlimited.
func (r *RateLimiter) MaxCalls() int64 {
	return r.maxCalls
}

// Remaining returns the calls left in the current window, or -1 when no
// quota is configured.
func (r *RateLimiter) Remaining() int64 {
	if r.maxCalls == 0 {
		return -1
	}
	return max(r.maxCalls-r.used.Load(), 0)
}

// ResetAt returns when the current window ends.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

func (r *RateLimiter) checkReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.used.Store(0)
		r.resetAt = now.Add(r.window)
	}
}
