package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	coresequence "backoffice/internal/core/sequence"
)

func TestCached_RefillsFromStore(t *testing.T) {
	db := newFakeDB()
	cached := NewCached(newTestService(db), 10)
	ctx := context.Background()

	v, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, int64(10), db.value("orders"), "first call reserves a whole block")

	v, err = cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, 1, db.callCount(), "second value comes from memory")

	for i := 0; i < 8; i++ {
		_, err = cached.AllocateNext(ctx, "orders")
		require.NoError(t, err)
	}

	v, err = cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(11), v)
	assert.Equal(t, int64(20), db.value("orders"))
}

func TestCached_BatchFromBlock(t *testing.T) {
	db := newFakeDB()
	cached := NewCached(newTestService(db), 10)
	ctx := context.Background()

	_, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)

	rng, err := cached.AllocateBatch(ctx, "orders", 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4, 5}, rng.Values())

	// 5 values left in the block, 6 requested: reserved straight from the store.
	rng, err = cached.AllocateBatch(ctx, "orders", 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12, 13, 14, 15, 16}, rng.Values())

	v, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(17), v, "values keep increasing after a pass-through batch")
	assert.Equal(t, int64(26), db.value("orders"))
}

func TestCached_IncreasingAcrossPassThroughBatch(t *testing.T) {
	db := newFakeDB()
	cached := NewCached(newTestService(db), 10)
	ctx := context.Background()

	v, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	rng, err := cached.AllocateBatch(ctx, "orders", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(11), rng.First)
	assert.Equal(t, int64(30), rng.Last)

	last := rng.Last
	for i := 0; i < 15; i++ {
		v, err = cached.AllocateNext(ctx, "orders")
		require.NoError(t, err)
		assert.Greater(t, v, last)
		last = v
	}

	p, err := cached.PreviewNext(ctx, "orders")
	require.NoError(t, err)
	assert.Greater(t, p.Next, last)
}

func TestCached_PassThroughFailureKeepsBlock(t *testing.T) {
	db := newFakeDB()
	cached := NewCached(newTestService(db), 10)
	ctx := context.Background()

	_, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)

	db.failures = []error{errors.New("connection refused")}
	_, err = cached.AllocateBatch(ctx, "orders", 20)
	require.Error(t, err)

	v, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v, "nothing was issued above the block")
}

func TestCached_RangeClampedToMaxBatch(t *testing.T) {
	db := newFakeDB()
	svc := newTestService(db)
	cached := NewCached(svc, 5000)
	ctx := context.Background()

	v, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, svc.MaxBatchSize(), db.value("orders"))

	assert.Equal(t, int64(1000), EffectiveRangeSize(svc, 5000))
	assert.Equal(t, int64(200), EffectiveRangeSize(svc, 200))
	assert.Equal(t, coresequence.DefaultRangeSize, EffectiveRangeSize(svc, 0))
	assert.Equal(t, int64(5000), EffectiveRangeSize(&coresequence.MockAllocator{}, 5000),
		"allocators without a cap are used as configured")
}

func TestCached_Preview(t *testing.T) {
	db := newFakeDB()
	cached := NewCached(newTestService(db), 5)
	ctx := context.Background()

	p, err := cached.PreviewNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Next)

	_, err = cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)

	p, err = cached.PreviewNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Next)
	assert.False(t, p.IsReservation())
}

func TestCached_ProcessesStayDisjoint(t *testing.T) {
	db := newFakeDB()
	a := NewCached(newTestService(db), 7)
	b := NewCached(newTestService(db), 7)
	ctx := context.Background()

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for _, c := range []*Cached{a, b} {
		c := c // per-iteration copy (go directive is 1.21)
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := c.AllocateNext(ctx, "shipments")
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				assert.False(t, seen[v], "value %d issued twice", v)
				seen[v] = true
			}()
		}
	}
	wg.Wait()
	assert.Len(t, seen, 80)
}

func TestCached_RefillFailure(t *testing.T) {
	db := newFakeDB()
	db.failures = []error{errors.New("connection refused")}
	cached := NewCached(newTestService(db), 10)

	_, err := cached.AllocateNext(context.Background(), "orders")
	assert.True(t, apperror.HasCode(err, apperror.CodeAllocationFailed))

	v, err := cached.AllocateNext(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "a failed refill reserves nothing")
}

func TestCached_Forget(t *testing.T) {
	db := newFakeDB()
	cached := NewCached(newTestService(db), 10)
	ctx := context.Background()

	_, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	cached.Forget("orders")

	v, err := cached.AllocateNext(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(11), v)
}

func TestCached_InvalidInput(t *testing.T) {
	cached := NewCached(&coresequence.MockAllocator{}, 0)

	_, err := cached.AllocateNext(context.Background(), "")
	assert.True(t, apperror.IsValidation(err))

	_, err = cached.AllocateBatch(context.Background(), "orders", 0)
	assert.True(t, apperror.IsValidation(err))
}
