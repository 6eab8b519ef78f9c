package cache

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newClockedCache[V any](maxSize int, ttl time.Duration, opts ...Option[string, V]) (*TTLCache[string, V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, V](maxSize, ttl, opts...)
	c.now = clock.Now
	return c, clock
}

func TestTTLCacheSetGet(t *testing.T) {
	cache := NewTTLCache[string, int](2, time.Second)
	cache.Set("a", 1)

	value, ok := cache.Get("a")
	if !ok || value != 1 {
		t.Fatalf("expected 1, got %d (%v)", value, ok)
	}
}

func TestTTLCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var reasons []EvictReason
	var keys []string
	cache := NewTTLCache[string, int](2, time.Minute, WithEvict(func(key string, _ int, reason EvictReason) {
		keys = append(keys, key)
		reasons = append(reasons, reason)
	}))
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Get("a")
	cache.Set("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Fatalf("expected key 'b' to be evicted")
	}
	if value, ok := cache.Get("a"); !ok || value != 1 {
		t.Fatalf("expected key 'a' to remain")
	}
	if len(keys) != 1 || keys[0] != "b" || reasons[0] != EvictCapacity {
		t.Fatalf("unexpected evictions: %v %v", keys, reasons)
	}
}

func TestTTLCacheExpiresAndSlides(t *testing.T) {
	cache, clock := newClockedCache[int](4, time.Minute)
	cache.Set("a", 1)
	cache.Set("b", 2)

	clock.Advance(40 * time.Second)
	if _, ok := cache.Get("a"); !ok {
		t.Fatalf("expected 'a' alive")
	}
	clock.Advance(40 * time.Second)
	if _, ok := cache.Get("b"); ok {
		t.Fatalf("expected 'b' to expire")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Fatalf("expected 'a' to be kept alive by access")
	}
}

func TestTTLCachePrune(t *testing.T) {
	expired := 0
	cache, clock := newClockedCache(4, time.Minute, WithEvict(func(_ string, _ int, reason EvictReason) {
		if reason == EvictExpired {
			expired++
		}
	}))
	cache.Set("a", 1)
	cache.Set("b", 2)
	clock.Advance(30 * time.Second)
	cache.Set("c", 3)
	clock.Advance(45 * time.Second)

	if n := cache.Prune(); n != 2 {
		t.Fatalf("expected 2 pruned, got %d", n)
	}
	if expired != 2 || cache.Len() != 1 {
		t.Fatalf("unexpected state: expired=%d len=%d", expired, cache.Len())
	}
	if values := cache.Values(); len(values) != 1 || values[0] != 3 {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestTTLCacheDelete(t *testing.T) {
	var reason EvictReason
	cache := NewTTLCache[string, int](2, time.Minute, WithEvict(func(_ string, _ int, r EvictReason) { reason = r }))
	cache.Set("a", 1)
	if !cache.Delete("a") {
		t.Fatalf("expected delete to report presence")
	}
	if cache.Delete("a") {
		t.Fatalf("second delete must report absence")
	}
	if reason != EvictDeleted || cache.Len() != 0 {
		t.Fatalf("unexpected state: %s %d", reason, cache.Len())
	}
}

func TestTTLCacheModify(t *testing.T) {
	cache, clock := newClockedCache[int](2, time.Minute)
	increment := func(current int, _ bool) int { return current + 1 }

	for i := 1; i <= 3; i++ {
		if got, ok := cache.Modify("k", increment); !ok || got != i {
			t.Fatalf("modify %d: got %d (%v)", i, got, ok)
		}
	}
	clock.Advance(2 * time.Minute)
	if got, _ := cache.Modify("k", increment); got != 1 {
		t.Fatalf("expired value must restart, got %d", got)
	}
}
