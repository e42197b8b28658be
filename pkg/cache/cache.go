// Package cache stores generated scenes and rendered artifacts.
//
// # Overview
//
// Generating a scene is cheap, but rasterizing it through rsvg-convert or
// Graphviz is not. The pipeline therefore caches both the serialized scene
// and every artifact under keys derived from the scene parameters:
//
//   - [FileCache]: hashed files under the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP server)
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]; [ScopedKeyer] adds a namespace prefix so several
// deployments can share one Redis.
//
// # Concurrency
//
// All implementations are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLScene is how long serialized scenes are kept.
	TTLScene = 7 * 24 * time.Hour
	// TTLArtifact is how long rendered artifacts are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by the cache.
	Clear(ctx context.Context) error
	// Close releases resources.
	Close() error
}
