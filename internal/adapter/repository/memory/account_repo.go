package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages a new account. Phone uniqueness is enforced again on Commit.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	memTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, taken := r.store.phones[account.Phone]
	r.store.mu.RUnlock()
	if taken {
		return domain.ErrPhoneTaken
	}

	return memTx.stage(func() {
		memTx.created = append(memTx.created, account.Clone())
	})
}

// GetByID retrieves a committed account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	acc, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// GetByPhone retrieves a committed account by phone without locking it.
func (r *AccountRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.phones[phone]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.store.accounts[id].Clone(), nil
}

// GetByIDForUpdate locks one account until tx ends.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	accounts, err := r.GetByIDsForUpdate(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return accounts[0], nil
}

// GetByIDsForUpdate locks accounts in the order given. Unknown ids are skipped.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	memTx, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if err := memTx.lock(ctx, id); err != nil {
			return nil, err
		}

		if acc := memTx.staged(id); acc != nil {
			accounts = append(accounts, acc)
			continue
		}

		r.store.mu.RLock()
		acc, ok := r.store.accounts[id]
		r.store.mu.RUnlock()
		if ok {
			accounts = append(accounts, acc.Clone())
		}
	}

	return accounts, nil
}

// Save stages the account's new balance. The account must be locked by tx.
func (r *AccountRepository) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	memTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	if !memTx.isHeld(account.ID) {
		return fmt.Errorf("memory: account %s saved without lock", account.ID)
	}

	return memTx.stage(func() {
		memTx.updated[account.ID] = account.Clone()
	})
}

// SumBalances returns the sum of all committed balances.
func (r *AccountRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := decimal.Zero
	for _, acc := range r.store.accounts {
		total = total.Add(acc.Balance.Decimal())
	}
	return total, nil
}

// List returns accounts ordered by creation time.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	all := make([]*domain.Account, 0, len(r.store.accounts))
	for _, acc := range r.store.accounts {
		all = append(all, acc.Clone())
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	return page(all, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
