package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ZeroRateIsUnlimited(t *testing.T) {
	limiter := New(0, 0)
	assert.True(t, limiter.Unlimited())

	for i := 0; i < 1000; i++ {
		require.True(t, limiter.Allow())
	}
}

func TestAllow_ExhaustsBurst(t *testing.T) {
	limiter := New(1, 3)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "burst of 3 should be exhausted")
}

func TestNew_DefaultBurstMatchesRate(t *testing.T) {
	limiter := New(2, 0)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func TestWait_RespectsContext(t *testing.T) {
	limiter := New(1, 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.Error(t, err)
}
