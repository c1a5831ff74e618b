// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/infrastructure/storage/postgres"
)

// Pinger checks database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db      Pinger
	stats   func() postgres.PoolStats
	version string
}

// NewHealthHandler creates a new health handler.
// stats may be nil when pool statistics are not available.
func NewHealthHandler(db Pinger, stats func() postgres.PoolStats, version string) *HealthHandler {
	return &HealthHandler{db: db, stats: stats, version: version}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	// Check database connection
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     "backoffice",
		"version": h.version,
	}
	if h.stats != nil {
		body["database"] = h.stats()
	}
	c.JSON(http.StatusOK, body)
}
