package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/config"
)

// unreachable points at a port nothing listens on
var unreachable = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachable).CreateStore(ctx, config.IdempotencyBackendMemory)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachable)
		f.pingTimeout = 200 * time.Millisecond

		store, err := f.CreateStore(ctx, config.IdempotencyBackendRedis)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachable, WithInMemoryFallback(false))
		f.pingTimeout = 200 * time.Millisecond

		_, err := f.CreateStore(ctx, config.IdempotencyBackendRedis)
		assert.Error(t, err)
	})
}
