package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/logger"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/dto"
)

// healthPingTimeout bounds the database probe
const healthPingTimeout = 2 * time.Second

// DatabaseProbe is satisfied by *persistence.Database
type DatabaseProbe interface {
	PingContext(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler reports liveness of the process and its database
type HealthHandler struct {
	db        DatabaseProbe
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseProbe, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, startTime: time.Now()}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                       `json:"status"`
	Version   string                       `json:"version,omitempty"`
	GoVersion string                       `json:"go_version"`
	Uptime    string                       `json:"uptime"`
	Database  string                       `json:"database"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
}

// Health handles GET /health. A failed ping answers 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "up",
	}

	if err := h.db.PingContext(ctx); err != nil {
		logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeUnavailable, Message: "database unreachable"},
		})
		return
	}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
