package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Illegal transaction lifecycle transitions. These are programming errors and
// fatal to the caller's operation.
var (
	ErrTransactionActive = errors.New("a transaction is already in progress")
	ErrNoTransaction     = errors.New("no transaction is in progress")
)

// ConstraintViolationError is a store-level unique/check/foreign-key
// rejection. Callers must not retry blindly; the offending constraint is
// identified when the driver reports it.
type ConstraintViolationError struct {
	Constraint string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint violation (%s): %v", e.Constraint, e.Err)
	}
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// ConcurrencyConflictError is an optimistic conflict reported at commit time.
// The caller must reload and retry; it is never retried automatically.
type ConcurrencyConflictError struct {
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrency conflict: %v", e.Err)
}

func (e *ConcurrencyConflictError) Unwrap() error { return e.Err }

// PersistenceError is any other durability failure. Safe to retry with
// backoff.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PostgreSQL error classes relevant to classification.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// classify maps a raw durability failure onto the error taxonomy. Lifecycle
// errors pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransactionActive) || errors.Is(err, ErrNoTransaction) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
			return &ConstraintViolationError{Constraint: pgErr.ConstraintName, Err: err}
		case pgSerializationFail, pgDeadlockDetected:
			return &ConcurrencyConflictError{Err: err}
		}
		return &PersistenceError{Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return &ConstraintViolationError{Constraint: sqliteConstraintName(err), Err: err}
	}

	// sqlite reports constraint failures as plain errors, e.g.
	// "UNIQUE constraint failed: clients.tax_id" or
	// "CHECK constraint failed: chk_invoices_amount".
	if strings.Contains(strings.ToLower(err.Error()), "constraint") {
		return &ConstraintViolationError{Constraint: sqliteConstraintName(err), Err: err}
	}

	return &PersistenceError{Err: err}
}

func sqliteConstraintName(err error) string {
	msg := err.Error()
	idx := strings.Index(msg, "constraint failed: ")
	if idx < 0 {
		return ""
	}
	name := msg[idx+len("constraint failed: "):]
	if end := strings.IndexAny(name, " (\n"); end > 0 {
		name = name[:end]
	}
	return strings.TrimSpace(name)
}
