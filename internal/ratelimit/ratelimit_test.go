package ratelimit

import (
	"context"
	"testing"
	"time"
)

func newTestStore() (*MemoryStore, *time.Time) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestLimiterFixedWindow(t *testing.T) {
	ctx := context.Background()
	store, now := newTestStore()
	limiter := NewLimiter(store, 5, time.Minute)

	for i := 0; i < 5; i++ {
		res, err := limiter.Allow(ctx, "login:jane@example.com")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i+1, err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d rejected, want the first 5 allowed", i+1)
		}
		if want := 5 - (i + 1); res.Remaining != want {
			t.Errorf("hit %d remaining = %d, want %d", i+1, res.Remaining, want)
		}
	}

	res, err := limiter.Allow(ctx, "login:jane@example.com")
	if err != nil {
		t.Fatalf("Allow over limit: %v", err)
	}
	if res.Allowed {
		t.Error("sixth hit in the window should be rejected")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", res.Remaining)
	}

	// Other keys are unaffected.
	res, err = limiter.Allow(ctx, "login:other@example.com")
	if err != nil || !res.Allowed {
		t.Errorf("independent key rejected: allowed=%v err=%v", res.Allowed, err)
	}

	// Past the window the counter restarts.
	*now = now.Add(61 * time.Second)
	res, err = limiter.Allow(ctx, "login:jane@example.com")
	if err != nil {
		t.Fatalf("Allow after window: %v", err)
	}
	if !res.Allowed || res.Remaining != 4 {
		t.Errorf("after reset: allowed=%v remaining=%d, want true/4", res.Allowed, res.Remaining)
	}
}

func TestLimiterDefaults(t *testing.T) {
	store, _ := newTestStore()
	limiter := NewLimiter(store, 0, 0)
	if limiter.limit != 10 || limiter.window != time.Minute {
		t.Errorf("defaults = (%d, %v), want (10, 1m)", limiter.limit, limiter.window)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store, now := newTestStore()
	ctx := context.Background()

	if _, err := store.Incr(ctx, "a", time.Minute); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if _, err := store.Incr(ctx, "b", time.Hour); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("tracked keys = %d, want 2", store.Len())
	}

	*now = now.Add(2 * time.Minute)
	store.sweep()

	if store.Len() != 1 {
		t.Errorf("tracked keys after sweep = %d, want 1", store.Len())
	}
}

func TestMemoryStoreLazyReset(t *testing.T) {
	store, now := newTestStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Incr(ctx, "k", time.Minute); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}

	*now = now.Add(90 * time.Second)
	count, err := store.Incr(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("Incr after expiry: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want fresh window starting at 1", count)
	}
}
