// Package cache memoizes solver results and rendered artifacts.
//
// Solves are deterministic: the same network, diameter and solver settings
// always produce the same flows. The API server exploits this by keeping
// results in a MemoryCache keyed by a hash of those inputs, so repeated
// requests skip the Newton iteration. The CLI uses NullCache.
//
// Entries are opaque bytes; callers encode them (JSON) themselves.
package cache

import (
	"context"
	"time"
)

// TTLs for the entry kinds.
const (
	TTLSolution = time.Hour
	TTLSweep    = time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache stores byte values by key.
//
// Get reports a miss with hit == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
