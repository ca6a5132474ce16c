package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetNX(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	if !store.SetNX("k", "a", time.Minute) {
		t.Fatal("first SetNX should store")
	}
	if store.SetNX("k", "b", time.Minute) {
		t.Fatal("second SetNX should be refused")
	}

	if !store.SetNX("short", "x", time.Millisecond) {
		t.Fatal("first SetNX should store")
	}
	time.Sleep(10 * time.Millisecond)
	if !store.SetNX("short", "y", time.Minute) {
		t.Fatal("expired key should be replaced")
	}
	if store.SetNX("short", "z", time.Minute) {
		t.Fatal("replaced key should hold again")
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	limiter := NewMemoryLimiter(store)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "session-1", 50*time.Millisecond); !ok {
		t.Fatal("first attempt should pass")
	}
	if ok, _ := limiter.Allow(ctx, "session-1", 50*time.Millisecond); ok {
		t.Fatal("second attempt within the window should be refused")
	}
	if ok, _ := limiter.Allow(ctx, "session-2", 50*time.Millisecond); !ok {
		t.Fatal("other keys are independent")
	}

	time.Sleep(80 * time.Millisecond)
	if ok, _ := limiter.Allow(ctx, "session-1", 50*time.Millisecond); !ok {
		t.Fatal("attempt after the window should pass")
	}
}
