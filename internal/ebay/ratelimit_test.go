package ebay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterDailyLimit(t *testing.T) {
	r := NewRateLimiter(1000, 1000, 3)

	ctx := context.Background()
	for i := range 3 {
		require.NoError(t, r.Wait(ctx), "call %d should be admitted", i)
	}
	assert.Equal(t, int64(3), r.DailyCount())

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, ErrDailyLimitReached)
	assert.Equal(t, int64(3), r.DailyCount())
}

func TestRateLimiterDailyReset(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(1000, 1000, 1,
		WithRateLimiterNowFunc(func() time.Time { return now }),
	)

	ctx := context.Background()
	require.NoError(t, r.Wait(ctx))
	require.ErrorIs(t, r.Wait(ctx), ErrDailyLimitReached)

	// window rolls over 24h after the first call
	now = now.Add(24*time.Hour + time.Minute)
	require.NoError(t, r.Wait(ctx))
	assert.Equal(t, int64(1), r.DailyCount())
}

func TestRateLimiterContextCanceled(t *testing.T) {
	r := NewRateLimiter(0.001, 1, 100)

	ctx := context.Background()
	require.NoError(t, r.Wait(ctx)) // consumes the burst

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, r.Wait(canceled))
}
