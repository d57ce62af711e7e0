package ratelimit

import (
	"context"
	"time"
)

// Limiter bounds the number of attempts per identifier inside a fixed window.
// Identifiers are opaque: a form name, an IP, or a composite of both. Windows
// for different identifiers are independent.
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
}

// New builds a Limiter allowing max attempts per window against the given
// store. Limiters carry no ambient state; construct one per concern and
// inject it.
func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: int64(max), window: window}
}

// Allow records an attempt for the identifier and reports whether it is
// within the limit. The first attempt starts the window; attempts beyond max
// are rejected until the window resets, after which the counter restarts
// at 1.
func (l *Limiter) Allow(ctx context.Context, identifier string) (bool, error) {
	count, _, err := l.store.Increment(ctx, identifier, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.max, nil
}

// RemainingTime returns how long until the identifier's window resets. Zero
// means no window is active and the next attempt is fresh.
func (l *Limiter) RemainingTime(ctx context.Context, identifier string) (time.Duration, error) {
	return l.store.TTL(ctx, identifier)
}

// Reset clears the identifier's counter.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	return l.store.Reset(ctx, identifier)
}
