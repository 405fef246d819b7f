package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eduislas84/CuidarTek-Api/internal/platform/apperror"
)

// Postgres error codes the repositories care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Classify maps a pgx error to the shared error taxonomy. Row absence becomes
// ErrNotFound, unique violations become ErrConflict, and connectivity failures
// become ErrStoreUnavailable so callers can retry. Anything else is returned
// wrapped but unclassified.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", apperror.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", apperror.ErrNotFound, pgErr.ConstraintName)
		}
		return err
	}

	// context.Canceled stays unclassified: a caller-initiated abort is not a
	// store outage and must not surface as retryable.
	if errors.Is(err, context.Canceled) {
		return err
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperror.ErrStoreUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", apperror.ErrStoreUnavailable, err)
	}

	return err
}
