// Package cache provides response caching for the market data provider.
//
// Market tickers and VWAP data update on a fixed cadence (hours, not
// seconds), so every API response is cached under a namespaced key with
// a TTL matching that cadence. Two real backends are provided:
//
//   - FileCache: JSON files under the user cache directory, for CLI use
//   - RedisCache: shared cache for long-running or multi-process use
//
// NullCache disables caching entirely (--no-cache, tests).
package cache

import (
	"context"
	"time"
)

// Cache is the interface for response cache backends.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value in the cache. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
