package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
)

// postgres error codes the application reacts to
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeLockNotAvailable     = "55P03"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
)

// IsLockTimeout reports whether err is a transient lock conflict that can be
// resolved by retrying the whole transaction
func IsLockTimeout(err error) bool {
	var pqErr *pq.Error
	if !ierr.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure:
		return true
	}
	return false
}

// IsUniqueViolation reports whether err violates a unique constraint
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return ierr.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err references a missing row
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return ierr.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation
}

// WrapError marks a driver error with the matching sentinel. entity names
// the record in hints, e.g. "invoice".
func WrapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	switch {
	case ierr.Is(err, sql.ErrNoRows):
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			Mark(ierr.ErrNotFound)
	case IsUniqueViolation(err):
		return ierr.WithError(err).
			WithHintf("%s already exists", entity).
			Mark(ierr.ErrAlreadyExists)
	case IsForeignKeyViolation(err):
		return ierr.WithError(err).
			WithHintf("%s references a record that does not exist", entity).
			Mark(ierr.ErrValidation)
	case IsLockTimeout(err):
		// keep the driver error reachable for retry decisions
		return ierr.WithError(err).
			WithHint("The record is busy, please retry").
			Mark(ierr.ErrUnavailable)
	}
	return ierr.WithError(err).
		WithHintf("failed to access %s", entity).
		Mark(ierr.ErrDatabase)
}

// SetLockTimeout bounds how long row locks taken by the current transaction
// wait. Outside a transaction it is a no-op.
func (db *DB) SetLockTimeout(ctx context.Context, timeoutMs int) error {
	if timeoutMs <= 0 {
		return nil
	}
	if _, ok := GetTx(ctx); !ok {
		return nil
	}
	// SET does not accept bind parameters
	_, err := db.GetQuerier(ctx).ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMs))
	return err
}
