package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLimiter_RejectsOverLimit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	limiter := NewKeyedLimiter(2, time.Minute, clock)

	// Act
	first, _, err1 := limiter.Allow(ctx, "user:u1")
	clock.Advance(10 * time.Second)
	second, _, err2 := limiter.Allow(ctx, "user:u1")
	third, retryAfter, err3 := limiter.Allow(ctx, "user:u1")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	assert.True(t, first)
	assert.True(t, second)
	assert.False(t, third)
	assert.InDelta(t, float64(20*time.Second), float64(retryAfter), float64(time.Millisecond))
}

func TestKeyedLimiter_RejectionDoesNotSpendTokens(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	limiter := NewKeyedLimiter(1, time.Minute, clock)
	allowed, _, _ := limiter.Allow(ctx, "user:u1")
	require.True(t, allowed)

	// Act
	for i := 0; i < 5; i++ {
		allowed, _, _ = limiter.Allow(ctx, "user:u1")
		require.False(t, allowed)
	}
	clock.Advance(time.Minute + time.Second)
	allowed, _, err := limiter.Allow(ctx, "user:u1")

	// Assert
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestKeyedLimiter_Refills(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	limiter := NewKeyedLimiter(1, time.Minute, clock)
	allowed, _, _ := limiter.Allow(ctx, "ip:10.0.0.1")
	require.True(t, allowed)

	// Act
	clock.Advance(time.Minute + time.Second)
	allowed, _, err := limiter.Allow(ctx, "ip:10.0.0.1")

	// Assert
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestKeyedLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewKeyedLimiter(1, time.Minute, clockwork.NewFakeClock())

	a, _, _ := limiter.Allow(ctx, "user:a")
	b, _, _ := limiter.Allow(ctx, "user:b")

	assert.True(t, a)
	assert.True(t, b)
}

func TestKeyedLimiter_Prune(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	limiter := NewKeyedLimiter(5, time.Minute, clock)
	_, _, _ = limiter.Allow(ctx, "user:old")
	clock.Advance(65 * time.Second)
	_, _, _ = limiter.Allow(ctx, "user:recent")
	clock.Advance(5 * time.Second)

	// Act
	removed := limiter.Prune()

	// Assert
	assert.Equal(t, 1, removed)
	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "user:recent")
}
