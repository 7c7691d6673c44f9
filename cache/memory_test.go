package cache

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/dashcore"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	// Miss
	_, ok := c.Get(ctx, "u1", dashcore.VerbWrite, dashcore.EntityDashboards)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, "u1", dashcore.VerbWrite, dashcore.EntityDashboards, dashcore.ModeOwn)
	mode, ok := c.Get(ctx, "u1", dashcore.VerbWrite, dashcore.EntityDashboards)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if mode != dashcore.ModeOwn {
		t.Fatalf("expected own, got %s", mode)
	}

	// Different verb is a different key.
	if _, ok := c.Get(ctx, "u1", dashcore.VerbRead, dashcore.EntityDashboards); ok {
		t.Fatal("expected miss for different verb")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	c.Set(ctx, "u1", dashcore.VerbRead, dashcore.EntityDashboards, dashcore.ModeAll)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "u1", dashcore.VerbRead, dashcore.EntityDashboards)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidateSubject(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "u1", dashcore.VerbRead, dashcore.EntityDashboards, dashcore.ModeOwn)
	c.Set(ctx, "u1", dashcore.VerbWrite, dashcore.EntityDashboards, dashcore.ModeOwn)
	c.Set(ctx, "u2", dashcore.VerbRead, dashcore.EntityDashboards, dashcore.ModeAll)

	c.InvalidateSubject(ctx, "u1")

	if _, ok := c.Get(ctx, "u1", dashcore.VerbRead, dashcore.EntityDashboards); ok {
		t.Fatal("u1 read should be invalidated")
	}
	if _, ok := c.Get(ctx, "u1", dashcore.VerbWrite, dashcore.EntityDashboards); ok {
		t.Fatal("u1 write should be invalidated")
	}
	if _, ok := c.Get(ctx, "u2", dashcore.VerbRead, dashcore.EntityDashboards); !ok {
		t.Fatal("u2 should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	subjects := []string{"a", "b", "c", "d", "e"}
	for _, s := range subjects {
		c.Set(ctx, s, dashcore.VerbRead, dashcore.EntityDashboards, dashcore.ModeOwn)
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
