package qbtime

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitWithinBudgetDoesNotBlock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(3, 300, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
}

func TestWaitBlocksUntilRefill(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(3, 300, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}

	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	// The fourth caller parks on the clock instead of sending.
	clock.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("Wait returned before the bucket refilled")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after refill")
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(1, 300, clock)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, limiter.Wait(ctx))

	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not observe cancellation")
	}
}

// Ten requests through a 3-per-second limiter need at least three
// seconds of clock time, however fast the callers arrive.
func TestSustainedRateIsCapped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(3, 300, clock)
	start := clock.Now()

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if err := limiter.Wait(ctx); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			elapsed := clock.Now().Sub(start)
			assert.GreaterOrEqual(t, elapsed, 2*time.Second+300*time.Millisecond,
				"10 requests at 3/s finished after only %s", elapsed)
			return
		case <-time.After(5 * time.Millisecond):
			clock.Advance(100 * time.Millisecond)
		}
	}
}

func TestMinuteBucketAlsoLimits(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(100, 2, clock)

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))

	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the minute bucket refilled")
	}
}
