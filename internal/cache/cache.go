// Package cache stores rendered snippets so repeated runs over the same
// layout skip rasterization. Entries are opaque byte slices addressed by
// string keys; Key builds keys from arbitrary JSON-encodable parts.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}
