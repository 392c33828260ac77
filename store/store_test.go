package store

import (
	"context"
	"testing"
	"time"
)

func TestStoreNamespacesKeys(t *testing.T) {
	t.Parallel()
	core := NewMemoryCache[string](0)
	a := NewStore(core, "a")
	b := NewStore(core, "b")
	ctx := context.Background()

	if err := a.Set(ctx, "k", "from-a"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("namespaces must not share keys")
	}
	val, ok, err := a.Get(ctx, "k")
	if err != nil || !ok || val != "from-a" {
		t.Errorf("Get = (%q, %v, %v)", val, ok, err)
	}
}

func TestStoreLifecycle(t *testing.T) {
	t.Parallel()
	s := NewStore(NewMemoryCache[int](0), "sessions")
	ctx := context.Background()

	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Error("missing key should not exist")
	}
	if err := s.Set(ctx, "k", 1); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set(ctx, "k", 2); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	val, ok, _ := s.Get(ctx, "k")
	if !ok || val != 2 {
		t.Errorf("Get = (%v, %v), want 2", val, ok)
	}
	if ok, _ := s.Exists(ctx, "k"); !ok {
		t.Error("key should exist")
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("deleted key should not exist")
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	t.Parallel()
	cache := NewMemoryCache[string](time.Hour)
	clock := time.Date(2023, time.January, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	clock = clock.Add(59 * time.Minute)
	if val, ok, _ := cache.Get(ctx, "k"); !ok || val != "v" {
		t.Errorf("before expiry: Get = (%q, %v)", val, ok)
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("entry should have expired")
	}
	if ok, _ := cache.Exists(ctx, "k"); ok {
		t.Error("expired entry should not exist")
	}
}

func TestMemoryCacheHonorsContext(t *testing.T) {
	t.Parallel()
	cache := NewMemoryCache[string](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Set(ctx, "k", "v"); err == nil {
		t.Error("set on a cancelled context should fail")
	}
	if _, _, err := cache.Get(ctx, "k"); err == nil {
		t.Error("get on a cancelled context should fail")
	}
}
