package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
)

type stubProbe struct {
	pingErr error
}

func (s stubProbe) PingContext(context.Context) error { return s.pingErr }

func (s stubProbe) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{MaxOpenConnections: 25, OpenConnections: 1, Idle: 1}, nil
}

func TestHealthHandler(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		r := newTestEngine()
		r.GET("/health", NewHealthHandler(stubProbe{}, "1.2.3").Health)

		w, env := do(t, r, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Contains(t, string(env.Data), `"database":"up"`)
		assert.Contains(t, string(env.Data), `"max_open_connections":25`)
	})

	t.Run("database down", func(t *testing.T) {
		r := newTestEngine()
		r.GET("/health", NewHealthHandler(stubProbe{pingErr: errors.New("refused")}, "").Health)

		w, env := do(t, r, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
		assert.Contains(t, string(env.Data), `"database":"down"`)
	})
}
