package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	coretx "backoffice/internal/core/tx"
	"backoffice/pkg/logger"
)

var tracer = otel.Tracer("backoffice/tx")

// Querier is the statement surface shared by the pool and an open transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxOptions configures transaction behavior.
type TxOptions struct {
	// IsolationLevel: pgx.Serializable, pgx.RepeatableRead, pgx.ReadCommitted
	IsolationLevel pgx.TxIsoLevel

	// AccessMode: pgx.ReadWrite, pgx.ReadOnly
	AccessMode pgx.TxAccessMode

	// StatementTimeout protects against long-running queries (default 30s)
	StatementTimeout time.Duration
}

// DefaultTxOptions returns production-safe defaults.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		AccessMode:       pgx.ReadWrite,
		StatementTimeout: 30 * time.Second,
	}
}

// TxManager runs functions inside database transactions and lets
// repositories pick up the active transaction from context.
type TxManager struct {
	pool *pgxpool.Pool
}

// Ensure compile-time interface compliance.
var _ coretx.ReadOnlyManager = (*TxManager)(nil)

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

// txKey is the context key for active transaction.
type txKey struct{}

// RunInTransaction executes fn within a transaction.
// If a transaction already exists in ctx, it is reused.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, DefaultTxOptions(), fn)
}

// ReadOnly executes fn in a read-only transaction.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := DefaultTxOptions()
	opts.AccessMode = pgx.ReadOnly
	return m.RunInTransactionWithOptions(ctx, opts, fn)
}

// RunInTransactionWithOptions executes fn with custom transaction options.
func (m *TxManager) RunInTransactionWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsolationLevel)),
			attribute.String("tx.access_mode", string(opts.AccessMode)),
		))
	defer span.End()

	if GetTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   opts.IsolationLevel,
		AccessMode: opts.AccessMode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if opts.StatementTimeout > 0 {
		_, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds()))
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	txCtx := WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		// Background context so the rollback completes even if ctx was cancelled.
		if rbErr := tx.Rollback(context.Background()); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WithTx returns a copy of ctx carrying tx.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTx returns the current transaction from context, or nil if none.
func GetTx(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	return GetTx(ctx) != nil
}

// GetQuerier returns the transaction in ctx, or the pool when there is none.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if tx := GetTx(ctx); tx != nil {
		return tx
	}
	return m.pool
}

// Pool returns the pool, ignoring any transaction in context.
func (m *TxManager) Pool() Querier {
	return m.pool
}
