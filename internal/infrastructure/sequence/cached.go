package sequence

import (
	"context"
	"sync"

	coresequence "backoffice/internal/core/sequence"
	"backoffice/internal/infrastructure/metrics"
)

type cachedRange struct {
	current int64
	max     int64
}

func (r *cachedRange) remaining() int64 {
	return r.max - r.current
}

// Cached serves values from blocks reserved through an underlying Allocator.
//
// Blocks come from AllocateBatch, so values stay unique across processes.
// Values left in a block when the process exits are never issued (gaps), and
// two processes holding different blocks hand out values out of global order.
// Use it for internal documents only; invoices should use the strict Service.
type Cached struct {
	next      coresequence.Allocator
	rangeSize int64

	// mu protects ranges
	mu     sync.Mutex
	ranges map[string]*cachedRange
}

// Ensure compile-time interface compliance.
var _ coresequence.Allocator = (*Cached)(nil)

// batchLimiter is implemented by allocators that cap AllocateBatch.
type batchLimiter interface {
	MaxBatchSize() int64
}

// NewCached wraps next with an in-memory block cache of rangeSize values per name.
// A rangeSize above the batch cap of next is lowered to that cap.
func NewCached(next coresequence.Allocator, rangeSize int64) *Cached {
	return &Cached{
		next:      next,
		rangeSize: EffectiveRangeSize(next, rangeSize),
		ranges:    make(map[string]*cachedRange),
	}
}

// EffectiveRangeSize returns the block size NewCached uses for next.
func EffectiveRangeSize(next coresequence.Allocator, rangeSize int64) int64 {
	if rangeSize <= 0 {
		rangeSize = coresequence.DefaultRangeSize
	}
	if l, ok := next.(batchLimiter); ok {
		if limit := l.MaxBatchSize(); limit > 0 && rangeSize > limit {
			rangeSize = limit
		}
	}
	return rangeSize
}

// AllocateNext implements coresequence.Allocator.
func (c *Cached) AllocateNext(ctx context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rng := c.rangeFor(name)
	if rng.remaining() <= 0 {
		block, err := c.next.AllocateBatch(ctx, name, c.rangeSize)
		if err != nil {
			return 0, err
		}
		metrics.SequenceCacheRefillCounter.Inc()
		// current sits one before the first value of the new block
		rng.current = block.First - 1
		rng.max = block.Last
	}

	rng.current++
	return rng.current, nil
}

// AllocateBatch implements coresequence.Allocator.
// The block is taken from the cached range when it still holds count values;
// otherwise it is reserved directly from the underlying allocator and the rest
// of the cached range is dropped, so later values come after the block.
func (c *Cached) AllocateBatch(ctx context.Context, name string, count int64) (coresequence.Range, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return coresequence.Range{}, err
	}
	if err := coresequence.ValidateCount(count, 0); err != nil {
		return coresequence.Range{}, err
	}

	c.mu.Lock()
	rng := c.rangeFor(name)
	if rng.remaining() >= count {
		block := coresequence.Range{Name: name, First: rng.current + 1, Last: rng.current + count}
		rng.current += count
		c.mu.Unlock()
		return block, nil
	}
	defer c.mu.Unlock()

	block, err := c.next.AllocateBatch(ctx, name, count)
	if err != nil {
		return coresequence.Range{}, err
	}
	rng.current = rng.max
	return block, nil
}

// PreviewNext implements coresequence.Allocator.
// While the cached block has values left, the preview comes from memory.
func (c *Cached) PreviewNext(ctx context.Context, name string) (coresequence.Preview, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return coresequence.Preview{}, err
	}

	c.mu.Lock()
	rng, ok := c.ranges[name]
	if ok && rng.remaining() > 0 {
		p := coresequence.Preview{Name: name, Next: rng.current + 1}
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	return c.next.PreviewNext(ctx, name)
}

// Forget drops the cached block for name. The values left in it are never issued.
func (c *Cached) Forget(name string) {
	c.mu.Lock()
	delete(c.ranges, name)
	c.mu.Unlock()
}

// rangeFor returns the cached range for name, creating an empty one. Callers hold mu.
func (c *Cached) rangeFor(name string) *cachedRange {
	rng, exists := c.ranges[name]
	if !exists {
		rng = &cachedRange{}
		c.ranges[name] = rng
	}
	return rng
}
