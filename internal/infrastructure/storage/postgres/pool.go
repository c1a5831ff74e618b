// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/pkg/logger"
)

// PoolConfig holds connection pool configuration.
type PoolConfig struct {
	DSN               string
	ApplicationName   string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultPoolConfig returns sensible defaults for production.
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		ApplicationName:   "backoffice",
		MaxConns:          25,
		MinConns:          2,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// Pool wraps pgxpool.Pool to provide a clean interface.
type Pool struct {
	*pgxpool.Pool
}

// Close closes all connections in the pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// Unwrap returns the underlying pgxpool.Pool for cases where it's needed.
func (p *Pool) Unwrap() *pgxpool.Pool {
	return p.Pool
}

// NewPool creates a new connection pool with the given configuration.
func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod

	if cfg.ApplicationName != "" {
		appName := cfg.ApplicationName
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SELECT set_config('application_name', $1, false)", appName)
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// PoolStats returns current pool statistics for metrics.
type PoolStats struct {
	TotalConns      int32         `json:"total_conns"`
	AcquiredConns   int32         `json:"acquired_conns"`
	IdleConns       int32         `json:"idle_conns"`
	MaxConns        int32         `json:"max_conns"`
	AcquireCount    int64         `json:"acquire_count"`
	AcquireDuration time.Duration `json:"acquire_duration"`
}

// Stats extracts statistics from the pool.
func (p *Pool) Stats() PoolStats {
	stat := p.Stat()
	return PoolStats{
		TotalConns:      stat.TotalConns(),
		AcquiredConns:   stat.AcquiredConns(),
		IdleConns:       stat.IdleConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration(),
	}
}

// LogStats logs pool statistics.
func (p *Pool) LogStats(ctx context.Context) {
	stats := p.Stats()
	logger.Info(ctx, "database pool stats",
		"total", stats.TotalConns,
		"acquired", stats.AcquiredConns,
		"idle", stats.IdleConns,
		"max", stats.MaxConns,
	)
}
