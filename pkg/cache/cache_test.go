package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	key := NewDefaultKeyer().SolveKey("net", 0.0254, SolveKeyOpts{SolverHash: "newton"})
	if err := c.Set(ctx, key, []byte(`{"flows":[]}`), TTLSolution); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || hit || data != nil {
		t.Errorf("Get after Set = (%q, %v, %v), want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestNullCacheReportsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewNullCache()

	if _, hit, err := c.Get(ctx, "sweep"); hit || !errors.Is(err, context.Canceled) {
		t.Errorf("Get = (%v, %v), want miss with context.Canceled", hit, err)
	}
	if err := c.Set(ctx, "sweep", nil, TTLSweep); !errors.Is(err, context.Canceled) {
		t.Errorf("Set err = %v, want context.Canceled", err)
	}
	if err := c.Delete(ctx, "sweep"); !errors.Is(err, context.Canceled) {
		t.Errorf("Delete err = %v, want context.Canceled", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	// Miss on empty cache
	_, hit, err := c.Get(ctx, "key")
	if err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v; want value", data, hit, err)
	}

	// Returned data is a copy
	data[0] = 'X'
	again, _, _ := c.Get(ctx, "key")
	if string(again) != "value" {
		t.Error("mutating returned data must not change the cache")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(0)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should never expire")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after lazy expiry", c.Len())
	}
}

func TestMemoryCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	_ = c.Set(ctx, "c", []byte("3"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry closest to expiry should be evicted first")
	}

	// Overwriting an existing key does not evict.
	_ = c.Set(ctx, "b", []byte("22"), time.Hour)
	if c.Len() != 2 {
		t.Errorf("Len() = %d after overwrite, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Error("overwrite must not evict other entries")
	}
}

func TestHashJSON(t *testing.T) {
	type net struct {
		Demand   float64
		Diameter float64
	}
	h1, err := HashJSON(net{0.0012, 0.0254})
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashJSON(net{0.0012, 0.0254})
	h3, _ := HashJSON(net{0.0012, 0.0508})
	if h1 != h2 {
		t.Error("HashJSON should be deterministic")
	}
	if h1 == h3 {
		t.Error("different values should hash differently")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// SolveKey covers diameter and solver settings
	sk1 := k.SolveKey("net", 0.0254, SolveKeyOpts{SolverHash: "newton"})
	sk2 := k.SolveKey("net", 0.0508, SolveKeyOpts{SolverHash: "newton"})
	sk3 := k.SolveKey("net", 0.0254, SolveKeyOpts{SolverHash: "loose"})
	if sk1 == sk2 || sk1 == sk3 {
		t.Error("SolveKey should depend on diameter and solver")
	}
	if sk1[:6] != "solve:" {
		t.Errorf("SolveKey unexpected prefix: %s", sk1)
	}

	// SweepKey covers the grid
	wk1 := k.SweepKey("net", SweepKeyOpts{Grid: []float64{0.0254, 0.0508}})
	wk2 := k.SweepKey("net", SweepKeyOpts{Grid: []float64{0.0254}})
	if wk1 == wk2 {
		t.Error("Different grids should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Kind: "network", Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Kind: "network", Format: "dot"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	// All keys should be prefixed
	opts := SolveKeyOpts{SolverHash: "s"}
	if got, want := scoped.SolveKey("n", 0.03, opts), "api:"+inner.SolveKey("n", 0.03, opts); got != want {
		t.Errorf("ScopedKeyer SolveKey = %s, want %s", got, want)
	}

	sweepKey := scoped.SweepKey("n", SweepKeyOpts{})
	if len(sweepKey) < 15 || sweepKey[:4] != "api:" {
		t.Errorf("ScopedKeyer SweepKey should be prefixed: %s", sweepKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Kind: "chart", Format: "svg"})
	if want := "prefix:" + NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Kind: "chart", Format: "svg"}); key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
