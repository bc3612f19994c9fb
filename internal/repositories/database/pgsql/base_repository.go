package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNumericOutOfRange    = "22003"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// WithTx executes fn within a read-committed transaction. The transaction is
// committed when fn returns nil and rolled back on any error or panic.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewStorageError("begin transaction", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) {
			return &apperrors.SequenceConflictError{Cause: err}
		}
		return apperrors.NewStorageError("commit transaction", err)
	}
	return nil
}

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isRetryable(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgSerializationFailure || code == pgDeadlockDetected
}

// wrapErr turns driver errors into storage errors, keeping context
// cancellation visible to errors.Is.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return &apperrors.SequenceConflictError{Cause: err}
	}
	return apperrors.NewStorageError(op, err)
}

func wrapErrf(err error, format string, args ...any) error {
	return wrapErr(fmt.Sprintf(format, args...), err)
}
