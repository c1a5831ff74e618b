package sequence

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	coresequence "backoffice/internal/core/sequence"
	"backoffice/pkg/logger"
)

func newTxService(runner *fakeTxRunner, join bool) *Service {
	cfg := DefaultConfig()
	cfg.Logger = logger.NewNop()
	cfg.JoinCallerTx = join
	return NewWithTxManager(runner, cfg)
}

func TestAllocate_CommitsOutsideCallerTx(t *testing.T) {
	runner := newFakeTxRunner()
	svc := newTxService(runner, false)

	err := runner.RunInTransaction(context.Background(), func(ctx context.Context) error {
		v, err := svc.AllocateNext(ctx, "invoices")
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		rng, err := svc.AllocateBatch(ctx, "invoices", 3)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 4}, rng.Values())
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), runner.pool.value("invoices"))
	assert.Equal(t, 0, runner.tx.callCount(), "increments never run in the caller transaction")
}

func TestAllocate_JoinsCallerTxWhenConfigured(t *testing.T) {
	runner := newFakeTxRunner()
	svc := newTxService(runner, true)

	err := runner.RunInTransaction(context.Background(), func(ctx context.Context) error {
		v, err := svc.AllocateNext(ctx, "invoices")
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), runner.tx.value("invoices"))
	assert.Equal(t, 0, runner.pool.callCount())
}

func TestAllocate_NoRetryInsideJoinedTx(t *testing.T) {
	runner := newFakeTxRunner()
	runner.tx.failures = []error{&pgconn.PgError{Code: "40001"}}
	svc := newTxService(runner, true)

	err := runner.RunInTransaction(context.Background(), func(ctx context.Context) error {
		_, err := svc.AllocateNext(ctx, "invoices")
		return err
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeAllocationFailed))
	assert.Equal(t, 1, runner.tx.callCount(), "the aborted transaction is not retried")
}

func TestAllocate_OutsideTxUsesPool(t *testing.T) {
	runner := newFakeTxRunner()
	svc := newTxService(runner, true)

	v, err := svc.AllocateNext(context.Background(), "invoices")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, int64(1), runner.pool.value("invoices"))
}

func TestListCounters_RunsReadOnly(t *testing.T) {
	runner := newFakeTxRunner()
	svc := newTxService(runner, false)

	_, err := svc.ListCounters(context.Background(), "inv")
	require.Error(t, err)

	assert.Equal(t, 1, runner.readOnly)
	assert.Equal(t, 1, runner.tx.callCount(), "the listing reads through the read-only transaction")
	assert.Equal(t, 0, runner.pool.callCount())
}

func TestMaxBatchSize_AlwaysBounded(t *testing.T) {
	db := newFakeDB()
	cfg := DefaultConfig()
	cfg.Logger = logger.NewNop()
	cfg.MaxBatchSize = -1
	svc := New(db, cfg)

	assert.Equal(t, coresequence.DefaultMaxBatchSize, svc.MaxBatchSize())

	_, err := svc.AllocateBatch(context.Background(), "orders", 1_000_000_000_000)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, db.callCount())
}
