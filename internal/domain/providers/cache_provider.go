package providers

import "context"

// CacheProvider defines the interface for cache operations. Implemented by
// the redis adapter (HTTP response cache) and the bounded in-memory adapter
// (filter-option cache).
type CacheProvider interface {
	// Get retrieves a value from the cache. A miss is reported as an error;
	// callers treat any Get error as a miss and recompute.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an expiration in seconds.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)
}
