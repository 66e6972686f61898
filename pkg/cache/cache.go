// Package cache stores rendered diagrams so an unchanged family tree is not
// laid out by Graphviz twice.
//
// # Keys
//
// Keys are content addresses: [ArtifactKey] hashes the DOT source together
// with the output format and scale, so any change to a member that affects
// the picture produces a new key and stale entries are simply never read
// again.
//
// # Backends
//
//   - [FileCache]: entries as JSON files under a directory, used by the CLI
//   - [NullCache]: stores nothing, used when caching is disabled
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/familytree/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// GetOrSet returns the cached value for key, or calls compute, stores its
// result and returns it. hit reports whether the value came from c.
// Failing to store a computed value is not an error; the value is still
// returned.
func GetOrSet(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) (data []byte, hit bool, err error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, key)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, key)
	data, err = compute()
	if err != nil {
		return nil, false, err
	}
	if c.Set(ctx, key, data, ttl) == nil {
		hooks.OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}
