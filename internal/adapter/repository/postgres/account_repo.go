package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new account within tx.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	err = r.queries.WithTx(pgTx.PgxTx()).CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		Name:      account.Name,
		Phone:     account.Phone,
		PinHash:   account.PinHash,
		Balance:   moneyToNumeric(account.Balance),
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})

	return mapWriteError(err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByPhone retrieves an account by normalized phone without locking it.
func (r *AccountRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	row, err := r.queries.WithTx(pgTx.PgxTx()).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapLockError(ctx, err)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the accounts with FOR UPDATE in ascending id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	rows, err := r.queries.WithTx(pgTx.PgxTx()).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, mapLockError(ctx, err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// Save writes the account's balance within tx.
func (r *AccountRepository) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	n, err := r.queries.WithTx(pgTx.PgxTx()).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        account.ID,
		Balance:   moneyToNumeric(account.Balance),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapWriteError(err)
	}

	if n != 1 {
		return fmt.Errorf("update balance of %s: %w", account.ID, domain.ErrAccountNotFound)
	}

	return nil
}

// SumBalances returns the total of all balances.
func (r *AccountRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	total, err := r.queries.SumAccountBalances(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		Name:      row.Name,
		Phone:     row.Phone,
		PinHash:   row.PinHash,
		Balance:   numericToMoney(row.Balance),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
