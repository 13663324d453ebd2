package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

var accountColumns = []string{"id", "name", "phone", "pin_hash", "balance", "created_at", "updated_at"}

func accountRow(rows *pgxmock.Rows, id, phone, balance string) *pgxmock.Rows {
	now := timeToPgTimestamptz(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return rows.AddRow(id, "Holder", phone, "hash", decimalToNumeric(decimal.RequireFromString(balance)), now, now)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("acc-1").
		WillReturnRows(accountRow(pgxmock.NewRows(accountColumns), "acc-1", "+15550000001", "60.00"))

	acc, err := repo.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", acc.ID)
	assert.Equal(t, "60.00", acc.Balance.String())

	pool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByPhone(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE phone = $1")).
		WithArgs("+15550000002").
		WillReturnRows(accountRow(pgxmock.NewRows(accountColumns), "acc-2", "+15550000002", "0"))

	acc, err := repo.GetByPhone(context.Background(), "+15550000002")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", acc.ID)

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDsForUpdate(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)
	tx := beginMockTx(t, pool)

	rows := pgxmock.NewRows(accountColumns)
	accountRow(rows, "acc-1", "+15550000001", "100")
	accountRow(rows, "acc-2", "+15550000002", "5.5")

	pool.ExpectQuery(regexp.QuoteMeta("ORDER BY id\nFOR UPDATE")).
		WithArgs([]string{"acc-1", "acc-2"}).
		WillReturnRows(rows)

	accounts, err := repo.GetByIDsForUpdate(context.Background(), tx, []string{"acc-1", "acc-2"})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "5.50", accounts[1].Balance.String())

	assertExpectations(t, pool)
}

func TestAccountRepositoryLockTimeout(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnError(&pgconn.PgError{Code: pgErrLockNotAvailable})

	_, err := repo.GetByIDsForUpdate(context.Background(), tx, []string{"acc-1", "acc-2"})
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	pool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnError(&pgconn.PgError{Code: pgErrLockNotAvailable})

	_, err = repo.GetByIDForUpdate(context.Background(), tx, "acc-1")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
}

func TestAccountRepositoryCreateDuplicatePhone(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)
	tx := beginMockTx(t, pool)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintPhoneUnique})

	acc := domain.NewAccount("acc-1", "Alice", "+15550000001", "hash", time.Now())
	err := repo.Create(context.Background(), tx, acc)
	assert.ErrorIs(t, err, domain.ErrPhoneTaken)
}

func TestAccountRepositorySave(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)
	tx := beginMockTx(t, pool)

	acc := domain.NewAccount("acc-1", "Alice", "+15550000001", "hash", time.Now())
	acc.Credit(domain.MustMoney("34.50"), time.Now())

	pool.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Save(context.Background(), tx, acc))

	pool.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Save(context.Background(), tx, acc)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assertExpectations(t, pool)
}

func TestAccountRepositorySumBalances(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("SUM(balance)")).
		WillReturnRows(pgxmock.NewRows([]string{"total"}).AddRow(decimalToNumeric(decimal.RequireFromString("101.25"))))

	total, err := repo.SumBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "101.25", total.String())
}

func TestAccountRepositoryForeignTransaction(t *testing.T) {
	repo := NewAccountRepository(newMockPool(t))

	_, err := repo.GetByIDForUpdate(context.Background(), foreignTx{}, "acc-1")
	assert.True(t, errors.Is(err, errForeignTransaction))
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }
