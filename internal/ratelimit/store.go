package ratelimit

import (
	"context"
	"time"
)

// Store counts attempts per identifier inside a rolling window. The first
// increment for an identifier starts its window; once the window elapses the
// next increment starts over at 1.
type Store interface {
	// Increment bumps the counter for key and returns the new count plus the
	// time left until the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	// TTL returns the time left until the window for key resets, or zero when
	// no window is active.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Reset forgets the counter for key.
	Reset(ctx context.Context, key string) error
	Close() error
}
