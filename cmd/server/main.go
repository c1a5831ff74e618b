// Package main is the entry point for the back-office sequence server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/sequence"
	"backoffice/internal/domain/serial"
	v1 "backoffice/internal/infrastructure/http/v1"
	"backoffice/internal/infrastructure/metrics"
	seqstore "backoffice/internal/infrastructure/sequence"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/pkg/logger"
	"backoffice/pkg/telemetry"
)

const version = "0.1.0"

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting backoffice server", "version", version)

	// --- Tracing ---
	shutdownTracing, err := telemetry.Init("backoffice", version, getEnv("OTEL_TRACES_FILE", ""))
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	if minConns := getEnvInt("DB_MIN_CONNS", 2); minConns >= 0 {
		poolCfg.MinConns = int32(minConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Infow("database connection established", "max_conns", poolCfg.MaxConns)

	txManager := postgres.NewTxManager(pool)

	if getEnv("AUTO_MIGRATE", "true") == "true" {
		err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return postgres.Migrate(ctx, txManager.GetQuerier(ctx))
		})
		if err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
		log.Info("database schema is up to date")
	}

	// --- Sequence allocator ---
	allocator := seqstore.NewWithTxManager(txManager, seqstore.Config{
		CallTimeout:  getEnvDuration("SEQUENCE_CALL_TIMEOUT", 5*time.Second),
		MaxBatchSize: int64(getEnvInt("SEQUENCE_MAX_BATCH", int(sequence.DefaultMaxBatchSize))),
		Logger:       log,
	})
	cacheRange := int64(getEnvInt("SEQUENCE_CACHE_RANGE", int(sequence.DefaultRangeSize)))
	if effective := seqstore.EffectiveRangeSize(allocator, cacheRange); effective != cacheRange && cacheRange > 0 {
		log.Warnw("SEQUENCE_CACHE_RANGE exceeds SEQUENCE_MAX_BATCH, using the max batch size",
			"cache_range", cacheRange, "max_batch", allocator.MaxBatchSize())
	}
	cached := seqstore.NewCached(allocator, cacheRange)

	// --- Serial categories ---
	registry := serial.DefaultRegistry()
	if path := getEnv("SERIAL_CATEGORIES_FILE", ""); path != "" {
		if err := registry.LoadFile(path); err != nil {
			log.Fatalw("failed to load serial categories", "error", err)
		}
		log.Infow("serial categories loaded", "file", path)
	}

	serials, err := serial.NewService(registry, map[sequence.Strategy]sequence.Allocator{
		sequence.StrategyStrict: allocator,
		sequence.StrategyCached: cached,
	})
	if err != nil {
		log.Fatalw("failed to create serial service", "error", err)
	}
	log.Infow("serial service initialized", "categories", len(registry.All()))

	// --- Router ---
	if getEnv("APP_ENV", "development") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := v1.NewHandler(v1.RouterConfig{
		DB:        pool,
		PoolStats: pool.Stats,
		Logger:    log,
		Allocator: allocator,
		Lister:    allocator,
		Serials:   serials,
		Metrics:   metrics.Handler(),
		Version:   version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// Periodic pool stats
	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go func() {
		ticker := time.NewTicker(getEnvDuration("DB_STATS_INTERVAL", 5*time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-statsCtx.Done():
				return
			case <-ticker.C:
				pool.LogStats(statsCtx)
			}
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warnw("failed to flush traces", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
