// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"backoffice/internal/core/sequence"
	"backoffice/internal/infrastructure/http/v1/handlers"
	"backoffice/internal/infrastructure/http/v1/middleware"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// DB is pinged by the readiness probe
	DB handlers.Pinger

	// PoolStats reports connection pool statistics (optional)
	PoolStats func() postgres.PoolStats

	// Logger for request logging
	Logger *logger.Logger

	// Allocator serves the sequence endpoints
	Allocator sequence.Allocator

	// Lister backs GET /api/v1/sequences (optional)
	Lister sequence.Lister

	// Serials numbers documents by category (optional)
	Serials handlers.SerialService

	// Metrics is mounted at /metrics when set
	Metrics http.Handler

	// Version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.PoolStats, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	base := handlers.NewBaseHandler()

	v1 := router.Group("/api/v1")
	{
		handlers.NewSequenceHandler(base, cfg.Allocator, cfg.Lister).
			RegisterRoutes(v1.Group("/sequences"))

		if cfg.Serials != nil {
			handlers.NewSerialHandler(base, cfg.Serials).
				RegisterRoutes(v1.Group("/serials"))
		}
	}

	return router
}

// NewHandler returns the router wrapped with response compression.
func NewHandler(cfg RouterConfig) http.Handler {
	return gzhttp.GzipHandler(NewRouter(cfg))
}
