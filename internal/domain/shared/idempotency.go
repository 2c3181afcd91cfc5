package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which resource a client-supplied idempotency key
// produced, so a retried create can be answered without touching the store.
type IdempotencyStore interface {
	// Remember records key -> resourceID for ttl. It returns false if the key
	// was already recorded.
	Remember(ctx context.Context, key string, resourceID int64, ttl time.Duration) (bool, error)

	// Lookup returns the resource recorded for key, if any.
	Lookup(ctx context.Context, key string) (int64, bool, error)

	// Close releases resources held by the store
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key stays cached. The orders table keeps the key
	// permanently, so expiry only costs one extra database read.
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL: 24 * time.Hour,
	}
}
