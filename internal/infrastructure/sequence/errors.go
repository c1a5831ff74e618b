package sequence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"backoffice/internal/core/apperror"
)

// PostgreSQL error codes treated specially by the allocator.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
)

// isTransient reports whether err is a race-induced failure that a second
// attempt of the same upsert is expected to resolve.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}

// isTimeout reports whether err means the call did not finish in time.
// The statement may or may not have committed.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgQueryCanceled
}

// classify maps a storage error onto the allocator's error taxonomy.
func classify(name string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	if isTimeout(err) {
		return apperror.NewTimeout(name, err)
	}
	return apperror.NewAllocationFailed(name, err)
}

// failureReason labels err for metrics.
func failureReason(err error) string {
	switch {
	case apperror.IsValidation(err):
		return "invalid_input"
	case apperror.IsTimeout(err):
		return "timeout"
	default:
		return "storage"
	}
}
