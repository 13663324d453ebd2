package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iho/gowallet/internal/domain"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "34.50", "1000000000.99"} {
		d := decimal.RequireFromString(s)
		assert.True(t, d.Equal(numericToDecimal(decimalToNumeric(d))), s)
	}

	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestNumericToMoneyRounds(t *testing.T) {
	m := numericToMoney(decimalToNumeric(decimal.RequireFromString("1.005")))
	assert.Equal(t, "1.01", m.String())
}

func TestMapLockError(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, mapLockError(ctx, &pgconn.PgError{Code: pgErrLockNotAvailable}), domain.ErrLockTimeout)
	assert.ErrorIs(t, mapLockError(ctx, context.DeadlineExceeded), domain.ErrLockTimeout)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapLockError(ctx, other))
	assert.NoError(t, mapLockError(ctx, nil))
}

func TestMapWriteError(t *testing.T) {
	assert.ErrorIs(t, mapWriteError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintPhoneUnique}), domain.ErrPhoneTaken)
	assert.ErrorIs(t, mapWriteError(&pgconn.PgError{Code: pgErrCheckViolation, ConstraintName: constraintBalanceFloor}), domain.ErrInsufficientFunds)

	unique := &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "accounts_pkey"}
	assert.Equal(t, error(unique), mapWriteError(unique))
}

func TestIDGenerators(t *testing.T) {
	ulidGen := NewULIDGenerator()
	a, b := ulidGen.Generate(), ulidGen.Generate()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)

	id := NewUUIDGenerator().Generate()
	assert.Len(t, id, 36)
	assert.Equal(t, byte('4'), id[14])
}
