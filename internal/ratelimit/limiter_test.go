package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	limiter := New(store, 3, time.Minute)

	for i := 1; i <= 3; i++ {
		ok, err := limiter.Allow(context.Background(), "checkout")
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
		if !ok {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}

	ok, err := limiter.Allow(context.Background(), "checkout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("4th attempt within window should be rejected")
	}
}

func TestLimiterWindowReset(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	limiter := New(store, 1, 20*time.Millisecond)

	if ok, _ := limiter.Allow(context.Background(), "form"); !ok {
		t.Fatalf("first attempt should be allowed")
	}
	if ok, _ := limiter.Allow(context.Background(), "form"); ok {
		t.Fatalf("second attempt inside window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if ok, _ := limiter.Allow(context.Background(), "form"); !ok {
		t.Fatalf("attempt after window elapsed should be allowed again")
	}
	count, _, err := store.Increment(context.Background(), "form", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("counter should have restarted at 1 after reset, got %d after one extra increment", count)
	}
}

func TestLimiterIdentifiersIndependent(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	limiter := New(store, 1, time.Minute)

	if ok, _ := limiter.Allow(context.Background(), "checkout:1.2.3.4"); !ok {
		t.Fatalf("first identifier should be allowed")
	}
	if ok, _ := limiter.Allow(context.Background(), "checkout:5.6.7.8"); !ok {
		t.Fatalf("second identifier should have its own window")
	}
}

func TestLimiterRemainingTime(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	limiter := New(store, 1, time.Minute)

	left, err := limiter.RemainingTime(context.Background(), "quiet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left != 0 {
		t.Fatalf("no window active, expected 0, got %v", left)
	}

	if _, err := limiter.Allow(context.Background(), "busy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	left, err = limiter.RemainingTime(context.Background(), "busy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left <= 0 || left > time.Minute {
		t.Fatalf("remaining time out of range: %v", left)
	}
}

func TestMemoryReset(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	if _, _, err := store.Increment(context.Background(), "k", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Reset(context.Background(), "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _, err := store.Increment(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("counter should restart at 1 after reset, got %d", count)
	}
}
