package sequence

import (
	"context"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	AllocateNextFunc  func(ctx context.Context, name string) (int64, error)
	AllocateBatchFunc func(ctx context.Context, name string, count int64) (Range, error)
	PreviewNextFunc   func(ctx context.Context, name string) (Preview, error)
}

// AllocateNext implements Allocator.
func (m *MockAllocator) AllocateNext(ctx context.Context, name string) (int64, error) {
	if m.AllocateNextFunc != nil {
		return m.AllocateNextFunc(ctx, name)
	}
	return 1, nil
}

// AllocateBatch implements Allocator.
func (m *MockAllocator) AllocateBatch(ctx context.Context, name string, count int64) (Range, error) {
	if m.AllocateBatchFunc != nil {
		return m.AllocateBatchFunc(ctx, name, count)
	}
	return RangeEndingAt(name, count, count), nil
}

// PreviewNext implements Allocator.
func (m *MockAllocator) PreviewNext(ctx context.Context, name string) (Preview, error) {
	if m.PreviewNextFunc != nil {
		return m.PreviewNextFunc(ctx, name)
	}
	return Preview{Name: name, Next: 1}, nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
