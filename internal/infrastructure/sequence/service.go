// Package sequence provides the PostgreSQL implementation of the sequence allocator.
// This is the infrastructure layer - it implements core/sequence.Allocator.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	coresequence "backoffice/internal/core/sequence"
	coretx "backoffice/internal/core/tx"
	"backoffice/internal/infrastructure/metrics"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/pkg/logger"
)

var tracer = otel.Tracer("backoffice/sequence")

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Config tunes the allocator.
type Config struct {
	// Table holding the counters (default sys_sequences)
	Table string
	// CallTimeout bounds a single call made outside a caller transaction.
	// Zero leaves the caller's context deadline in charge.
	CallTimeout time.Duration
	// MaxBatchSize caps AllocateBatch (default 1000 when zero or negative)
	MaxBatchSize int64
	// JoinCallerTx runs allocations inside a transaction found in context.
	// Such values are not committed until the caller commits, and the counter
	// row stays locked until then. By default allocations commit on the pool
	// on their own, even when ctx carries a transaction.
	JoinCallerTx bool
	// Logger receives allocation logs (default logger.Default())
	Logger *logger.Logger
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Table:        DefaultTable,
		CallTimeout:  5 * time.Second,
		MaxBatchSize: coresequence.DefaultMaxBatchSize,
	}
}

// Service allocates sequence values with a single atomic upsert per call.
//
// Nothing in-process coordinates callers: uniqueness comes entirely from
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING, so any number of Service
// instances in any number of processes may share one table.
type Service struct {
	// staticQuerier is used when no TxManager is configured
	staticQuerier Querier
	// txManager, when set, supplies the pool and the transaction in context
	txManager TxRunner

	joinTx       bool
	table        string
	callTimeout  time.Duration
	maxBatchSize int64
	log          *logger.Logger
}

// TxRunner is the part of postgres.TxManager the allocator relies on.
type TxRunner interface {
	coretx.ReadOnlyManager
	GetQuerier(ctx context.Context) postgres.Querier
	Pool() postgres.Querier
}

// Ensure compile-time interface compliance.
var (
	_ TxRunner               = (*postgres.TxManager)(nil)
	_ coresequence.Allocator = (*Service)(nil)
	_ coresequence.Lister    = (*Service)(nil)
)

// New creates an allocator bound to a fixed querier (pool or connection).
func New(querier Querier, cfg Config) *Service {
	s := newService(cfg)
	s.staticQuerier = querier
	return s
}

// NewWithTxManager creates an allocator backed by txm.
//
// Allocations commit on the pool as their own statement, so a returned value
// is always committed, whatever transaction ctx carries. With
// cfg.JoinCallerTx they run inside that transaction instead: the value is
// released if the caller rolls back, is not visible to other sessions until
// the caller commits, and the counter row stays locked until then.
// Previews and listings read through the transaction in ctx when there is one.
func NewWithTxManager(txm TxRunner, cfg Config) *Service {
	s := newService(cfg)
	s.txManager = txm
	return s
}

func newService(cfg Config) *Service {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = coresequence.DefaultMaxBatchSize
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		joinTx:       cfg.JoinCallerTx,
		table:        cfg.Table,
		callTimeout:  cfg.CallTimeout,
		maxBatchSize: cfg.MaxBatchSize,
		log:          log.WithComponent("sequence"),
	}
}

// MaxBatchSize returns the largest count AllocateBatch accepts.
func (s *Service) MaxBatchSize() int64 {
	return s.maxBatchSize
}

// getQuerier returns the querier for reads and whether it is a caller transaction.
func (s *Service) getQuerier(ctx context.Context) (Querier, bool) {
	if s.txManager != nil {
		return s.txManager.GetQuerier(ctx), postgres.InTransaction(ctx)
	}
	return s.staticQuerier, false
}

// writeQuerier returns the querier for increments. A caller transaction is
// only joined when joinTx is set.
func (s *Service) writeQuerier(ctx context.Context) (Querier, bool) {
	if s.txManager != nil && !s.joinTx && postgres.InTransaction(ctx) {
		return s.txManager.Pool(), false
	}
	return s.getQuerier(ctx)
}

// AllocateNext implements coresequence.Allocator.
func (s *Service) AllocateNext(ctx context.Context, name string) (int64, error) {
	ctx, span := tracer.Start(ctx, "sequence.allocate_next",
		trace.WithAttributes(attribute.String("sequence.name", name)))
	defer span.End()

	start := time.Now()
	value, err := s.allocate(ctx, name, 1)
	s.observe(ctx, span, metrics.OpAllocateNext, name, start, err)
	if err != nil {
		return 0, err
	}

	metrics.SequenceValuesCounter.Inc()
	span.SetAttributes(attribute.Int64("sequence.value", value))
	s.log.WithContext(ctx).Debugw("sequence value allocated", "sequence", name, "value", value)
	return value, nil
}

// AllocateBatch implements coresequence.Allocator.
// The counter is advanced by count in one statement; the block is derived
// from the post-increment value, so it is contiguous and exclusive.
func (s *Service) AllocateBatch(ctx context.Context, name string, count int64) (coresequence.Range, error) {
	ctx, span := tracer.Start(ctx, "sequence.allocate_batch",
		trace.WithAttributes(
			attribute.String("sequence.name", name),
			attribute.Int64("sequence.count", count),
		))
	defer span.End()

	start := time.Now()
	var (
		last int64
		err  = coresequence.ValidateCount(count, s.maxBatchSize)
	)
	if err == nil {
		last, err = s.allocate(ctx, name, count)
	}
	s.observe(ctx, span, metrics.OpAllocateBatch, name, start, err)
	if err != nil {
		return coresequence.Range{}, err
	}

	rng := coresequence.RangeEndingAt(name, last, count)
	metrics.SequenceValuesCounter.Add(float64(count))
	span.SetAttributes(
		attribute.Int64("sequence.first", rng.First),
		attribute.Int64("sequence.last", rng.Last),
	)
	s.log.WithContext(ctx).Debugw("sequence block allocated",
		"sequence", name, "first", rng.First, "last", rng.Last)
	return rng, nil
}

// PreviewNext implements coresequence.Allocator.
// It is a plain read: nothing is reserved and a concurrent allocation can
// make the result stale immediately.
func (s *Service) PreviewNext(ctx context.Context, name string) (coresequence.Preview, error) {
	ctx, span := tracer.Start(ctx, "sequence.preview_next",
		trace.WithAttributes(attribute.String("sequence.name", name)))
	defer span.End()

	start := time.Now()
	current, err := s.current(ctx, name)
	s.observe(ctx, span, metrics.OpPreviewNext, name, start, err)
	if err != nil {
		return coresequence.Preview{}, err
	}
	return coresequence.Preview{Name: name, Next: current + 1}, nil
}

// ListCounters implements coresequence.Lister.
// With a TxManager the listing runs in a read-only transaction.
func (s *Service) ListCounters(ctx context.Context, prefix string) ([]coresequence.Counter, error) {
	sql, args, err := listQuery(s.table, prefix)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var counters []coresequence.Counter
	list := func(ctx context.Context) error {
		querier, _ := s.getQuerier(ctx)
		return pgxscan.Select(ctx, querier, &counters, sql, args...)
	}

	if s.txManager != nil {
		err = s.txManager.ReadOnly(ctx, list)
	} else {
		err = list(ctx)
	}
	if err != nil {
		return nil, classify(prefix, fmt.Errorf("list counters: %w", err))
	}
	return counters, nil
}

// allocate advances name by `by` and returns the post-increment value.
// A race-induced error is retried exactly once, and only outside a caller
// transaction: inside one, the failed statement has already aborted it.
func (s *Service) allocate(ctx context.Context, name string, by int64) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	querier, inTx := s.writeQuerier(ctx)
	if querier == nil {
		return 0, classify(name, errors.New("sequence service has no querier"))
	}

	if !inTx && s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	sql, args, err := incrementQuery(s.table, name, by)
	if err != nil {
		return 0, classify(name, fmt.Errorf("build increment query: %w", err))
	}

	op := func() (int64, error) {
		var value int64
		if err := querier.QueryRow(ctx, sql, args...).Scan(&value); err != nil {
			if inTx || !isTransient(err) {
				return 0, backoff.Permanent(err)
			}
			return 0, err
		}
		return value, nil
	}

	notify := func(err error, _ time.Duration) {
		metrics.SequenceRetryCounter.Inc()
		s.log.WithContext(ctx).Warnw("retrying sequence increment after transient error",
			"sequence", name, "error", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx)
	value, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		return 0, classify(name, fmt.Errorf("increment %s by %d: %w", name, by, err))
	}
	return value, nil
}

// current returns the last allocated value for name, 0 when the counter does not exist yet.
func (s *Service) current(ctx context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	querier, inTx := s.getQuerier(ctx)
	if querier == nil {
		return 0, classify(name, errors.New("sequence service has no querier"))
	}

	if !inTx && s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	sql, args, err := currentQuery(s.table, name)
	if err != nil {
		return 0, classify(name, fmt.Errorf("build preview query: %w", err))
	}

	var current int64
	err = querier.QueryRow(ctx, sql, args...).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, classify(name, fmt.Errorf("read %s: %w", name, err))
	}
	return current, nil
}

// observe records metrics and span status for one call.
func (s *Service) observe(ctx context.Context, span trace.Span, op, name string, start time.Time, err error) {
	metrics.SequenceCallHistogram.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.SequenceAllocationCounter.WithLabelValues(op).Inc()
		return
	}

	reason := failureReason(err)
	metrics.SequenceFailureCounter.WithLabelValues(op, reason).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)

	if reason != "invalid_input" {
		s.log.WithContext(ctx).Errorw("sequence call failed",
			"op", op, "sequence", name, "reason", reason, "error", err)
	}
}
