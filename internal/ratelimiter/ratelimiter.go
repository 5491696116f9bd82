package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound API calls with a token bucket.
//
// The ShareFile API enforces per-account request quotas; the REST client
// waits on the limiter before every request so bursts of adapter operations
// (recursive listings in particular) are smoothed instead of rejected with
// HTTP 429.
//
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerSecond sustained calls with the
// given burst capacity.
//
// A requestsPerSecond of 0 disables limiting. A burst of 0 defaults to
// requestsPerSecond.
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst == 0 {
		burst = requestsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Unlimited reports whether the limiter lets every call through.
func (r *RateLimiter) Unlimited() bool {
	return r.limiter.Limit() == rate.Inf
}

// Allow consumes a token if one is available, without waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
