package congress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterQuotaExhausted(t *testing.T) {
	l := NewLimiter(0, 3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(ctx))
	}

	err := l.Acquire(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrQuotaExhausted))

	status := l.Status()
	require.Equal(t, 3, status.DailyCount)
	require.Equal(t, 0, status.Remaining)
}

func TestLimiterMidnightReset(t *testing.T) {
	l := NewLimiter(0, 2)

	base := time.Date(2025, 7, 8, 23, 0, 0, 0, time.UTC)
	current := base
	l.now = func() time.Time { return current }
	l.dayMarker = midnight(base)

	ctx := context.Background()
	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	require.ErrorIs(t, l.Acquire(ctx), ErrQuotaExhausted)

	// Crossing midnight clears the counter.
	current = base.Add(2 * time.Hour)
	require.NoError(t, l.Acquire(ctx))
	require.Equal(t, 1, l.Status().DailyCount)
}

func TestLimiterEnforcesMinimumGap(t *testing.T) {
	gap := 50 * time.Millisecond
	l := NewLimiter(gap, 100)

	ctx := context.Background()
	start := time.Now()
	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, gap)
}

func TestLimiterAcquireCancelled(t *testing.T) {
	l := NewLimiter(5*time.Second, 100)

	ctx := context.Background()
	require.NoError(t, l.Acquire(ctx))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Acquire(cancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLimiterForSharesOrigin(t *testing.T) {
	a := LimiterFor("example.test", 0, 10)
	b := LimiterFor("example.test", 0, 10)
	require.Same(t, a, b)

	other := LimiterFor("other.test", 0, 10)
	require.NotSame(t, a, other)
}
