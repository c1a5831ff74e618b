// Package sequence defines the domain contract for named, persisted counters
// that hand out collision-free numbers to concurrent callers.
// Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"time"
)

// Allocator hands out unique, increasing integers per named sequence.
//
// Correctness under concurrency comes from the backing store: every
// allocation is a single atomic read-increment-write, so several processes
// may share one store without in-process coordination.
//
// Allocations are not idempotent. Retrying after a reported success consumes
// a new value; retrying after a failure or timeout is safe and never reissues
// a value.
type Allocator interface {
	// AllocateNext advances the counter for name by one and returns the new value.
	// A never-used name yields 1.
	AllocateNext(ctx context.Context, name string) (int64, error)

	// AllocateBatch advances the counter for name by count in one atomic step
	// and returns the contiguous block ending at the new value.
	// Either the whole block is returned or an error; never a part of it.
	AllocateBatch(ctx context.Context, name string, count int64) (Range, error)

	// PreviewNext reports the value AllocateNext would currently return,
	// without advancing the counter. The result is a hint, not a reservation.
	PreviewNext(ctx context.Context, name string) (Preview, error)
}

// Counter is the persisted state of one named sequence.
type Counter struct {
	Name string `db:"name" json:"name"`
	// Seq is the last allocated value, not the next one.
	Seq       int64     `db:"seq" json:"seq"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Next returns the value the next single allocation would produce.
func (c Counter) Next() int64 {
	return c.Seq + 1
}

// Lister is implemented by allocators that can enumerate their counters.
type Lister interface {
	// ListCounters returns counters whose name starts with prefix, ordered by name.
	// An empty prefix lists everything.
	ListCounters(ctx context.Context, prefix string) ([]Counter, error)
}
