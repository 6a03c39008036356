package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys for a limited time so that a
// repeated submission can be detected
type IdempotencyStore interface {
	// MarkProcessed marks a key as seen with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key is currently marked
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
