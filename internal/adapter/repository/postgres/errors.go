package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/gowallet/internal/domain"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgErrLockNotAvailable  = "55P03"
	pgErrUniqueViolation   = "23505"
	pgErrCheckViolation    = "23514"
	pgErrQueryCanceled     = "57014"
	constraintPhoneUnique  = "accounts_phone_key"
	constraintBalanceFloor = "accounts_balance_non_negative"
)

// mapLockError translates failures while acquiring row locks.
// A lock_timeout or a context deadline both mean the lock was not granted in time.
func mapLockError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgErrLockNotAvailable || pgErr.Code == pgErrQueryCanceled) {
		return domain.ErrLockTimeout
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrLockTimeout
	}

	return err
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraintPhoneUnique:
		return domain.ErrPhoneTaken
	case pgErr.Code == pgErrCheckViolation && pgErr.ConstraintName == constraintBalanceFloor:
		return domain.ErrInsufficientFunds
	}

	return err
}
