// Package ratelimit provides a fixed-window counter keyed by arbitrary
// strings. The window semantics match the portal's historical limiter: the
// first hit in a window sets the counter to 1 and arms the reset time; hits
// at or past the limit are rejected with zero remaining; every other hit
// increments the counter.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a single limiter check.
type Result struct {
	Allowed   bool
	Remaining int
}

// Store tracks per-key fixed-window counters. Incr returns the counter value
// after accounting for this hit; a new or expired window restarts at 1.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter enforces a fixed-window limit over an injected counter store.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

// NewLimiter constructs a limiter. Zero or negative values fall back to
// 10 hits per minute.
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}
	if count > l.limit {
		return Result{Allowed: false, Remaining: 0}, nil
	}
	return Result{Allowed: true, Remaining: l.limit - count}, nil
}
