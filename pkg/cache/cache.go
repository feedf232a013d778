// Package cache stores raw curriculum API responses between invocations.
//
// The cache is an optimization only: every backend may lose entries at
// any time and callers must treat a miss as "fetch again". Backends:
//
//   - [FileCache]: hashed JSON files under the user's cache directory
//   - [RedisCache]: a Redis server, selected by a redis:// URL
//   - [MongoCache]: a MongoDB collection, selected by a mongodb:// URL
//   - [NullCache]: caching disabled
//
// Use [Open] to pick a backend from configuration.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long API responses are kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports (nil, false, nil) on a miss; expired or corrupt entries are
// misses too. A ttl of 0 passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for API responses.
type Keyer interface {
	// HTTPKey returns the key for a response of the given endpoint
	// namespace (e.g. "course-units") and identifier.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer produces keys of the form "http:<namespace>:<key>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements Keyer.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
