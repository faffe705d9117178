package qbtime

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// bucket is a continuously refilled token bucket. Not safe for
// concurrent use on its own; RateLimiter serializes access.
type bucket struct {
	capacity  float64
	tokens    float64
	refillPer float64 // tokens per second
	last      time.Time
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.refillPer
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
}

// waitFor returns how long until a full token is available.
func (b *bucket) waitFor() time.Duration {
	if b.tokens >= 1 {
		return 0
	}
	missing := 1 - b.tokens
	return time.Duration(missing / b.refillPer * float64(time.Second))
}

// RateLimiter enforces the upstream's sustained request budget with two
// token buckets (per-second and per-minute). It is the single shared
// mutable resource of the fetch pipeline: token withdrawal is
// mutex-serialized so concurrent sub-fetches share one budget. The
// clock is injected so tests can drive it with a fake.
type RateLimiter struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	buckets []*bucket
}

// NewRateLimiter builds a limiter allowing perSecond sustained requests
// per second and perMinute per minute.
func NewRateLimiter(perSecond, perMinute int, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	now := clock.Now()
	return &RateLimiter{
		clock: clock,
		buckets: []*bucket{
			{capacity: float64(perSecond), tokens: float64(perSecond), refillPer: float64(perSecond), last: now},
			{capacity: float64(perMinute), tokens: float64(perMinute), refillPer: float64(perMinute) / 60, last: now},
		},
	}
}

// Wait blocks until a token is available in every bucket, then
// withdraws one from each. A request that would exceed the budget
// suspends here rather than being sent. Returns early with the context
// error on cancellation.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.clock.Now()
		var wait time.Duration
		for _, b := range l.buckets {
			b.refill(now)
			if w := b.waitFor(); w > wait {
				wait = w
			}
		}
		if wait == 0 {
			for _, b := range l.buckets {
				b.tokens--
			}
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(wait):
		}
	}
}
