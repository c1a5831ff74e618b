// Package tx defines transaction management independent of the database driver.
package tx

import (
	"context"
)

// Manager runs fn within a database transaction carried by ctx.
// If fn returns an error, the transaction is rolled back.
//
// Nested calls reuse the existing transaction from context. The sequence
// allocator only joins it when configured to; by default its increments
// commit on their own.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
