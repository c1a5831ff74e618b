package sequence

import (
	"strings"

	"backoffice/internal/core/apperror"
)

// MaxNameLength matches the width of the name column in storage.
const MaxNameLength = 128

// DefaultMaxBatchSize caps AllocateBatch when no explicit limit is configured.
const DefaultMaxBatchSize int64 = 1000

// ValidateName rejects names that cannot identify a counter.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidation("sequence name is required").
			WithDetail("field", "name")
	}
	if len(name) > MaxNameLength {
		return apperror.NewValidation("sequence name is too long").
			WithDetail("field", "name").
			WithDetail("max_length", MaxNameLength)
	}
	return nil
}

// ValidateCount rejects batch sizes outside [1, max]. A max of zero or less
// disables the upper bound.
func ValidateCount(count, max int64) error {
	if count <= 0 {
		return apperror.NewValidation("count must be positive").
			WithDetail("field", "count").
			WithDetail("value", count)
	}
	if max > 0 && count > max {
		return apperror.NewValidation("count exceeds maximum batch size").
			WithDetail("field", "count").
			WithDetail("value", count).
			WithDetail("max", max)
	}
	return nil
}
