package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingCall(ctx context.Context) (int, error) { return 0, eris.New("down") }

func okCall(ctx context.Context) (int, error) { return 42, nil }

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := Call(ctx, b, failingCall)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrBreakerOpen)
	}

	_, err := Call(ctx, b, okCall)
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.True(t, b.Tripped())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewBreaker(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = Call(ctx, b, failingCall)
		val, err := Call(ctx, b, okCall)
		require.NoError(t, err)
		assert.Equal(t, 42, val)
	}
	assert.False(t, b.Tripped())
}

func TestBreakerProbeAfterCooldown(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	ctx := context.Background()

	now := time.Now()
	b.now = func() time.Time { return now }

	_, _ = Call(ctx, b, failingCall)
	_, err := Call(ctx, b, okCall)
	require.ErrorIs(t, err, ErrBreakerOpen)

	// Cooldown elapses: a probe is allowed, and success closes the breaker.
	now = now.Add(2 * time.Minute)
	val, err := Call(ctx, b, okCall)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.False(t, b.Tripped())
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	ctx := context.Background()

	now := time.Now()
	b.now = func() time.Time { return now }

	_, _ = Call(ctx, b, failingCall)
	now = now.Add(2 * time.Minute)
	_, err := Call(ctx, b, failingCall)
	require.Error(t, err)

	_, err = Call(ctx, b, okCall)
	assert.ErrorIs(t, err, ErrBreakerOpen)
}
