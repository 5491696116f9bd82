package rest

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// backoff computes exponential delays with optional jitter.
type backoff struct {
	base   time.Duration
	max    time.Duration
	jitter float64

	mu   sync.Mutex
	rand *rand.Rand
}

func newBackoff(policy RetryPolicy) *backoff {
	return &backoff{
		base:   policy.BaseDelay,
		max:    policy.MaxDelay,
		jitter: math.Max(policy.Jitter, 0),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// forAttempt returns the delay before retry number attempt (0-indexed).
func (b *backoff) forAttempt(attempt int) time.Duration {
	delay := b.base
	if attempt > 0 {
		delay = time.Duration(float64(b.base) * float64(uint(1)<<uint(attempt)))
	}
	if delay <= 0 || delay > b.max {
		delay = b.max
	}
	if b.jitter == 0 {
		return delay
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	factor := 1 + (b.rand.Float64()*2-1)*math.Min(b.jitter, 1)
	return time.Duration(float64(delay) * factor)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
