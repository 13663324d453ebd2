package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. Entries are never
// modified once committed.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Append stages an entry for Commit.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	memTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	e := *entry
	return memTx.stage(func() {
		memTx.entries = append(memTx.entries, &e)
	})
}

// GetByID retrieves an entry by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx, ok := r.store.entryIndex[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	e := *r.store.entries[idx]
	return &e, nil
}

// ListByAccount returns entries involving the account, most recent first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	r.store.mu.RLock()
	var matched []*domain.LedgerEntry
	for i := len(r.store.entries) - 1; i >= 0; i-- {
		if r.store.entries[i].Involves(accountID) {
			e := *r.store.entries[i]
			matched = append(matched, &e)
		}
	}
	r.store.mu.RUnlock()

	return page(matched, limit, offset), nil
}

// CountByAccount counts entries involving the account.
func (r *LedgerRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, e := range r.store.entries {
		if e.Involves(accountID) {
			n++
		}
	}
	return n, nil
}

// SumDeposits returns the total of all deposit entries.
func (r *LedgerRepository) SumDeposits(ctx context.Context) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := decimal.Zero
	for _, e := range r.store.entries {
		if e.Kind == domain.EntryKindDeposit {
			total = total.Add(e.Amount.Decimal())
		}
	}
	return total, nil
}

// NetForAccount returns credits minus debits for one account.
func (r *LedgerRepository) NetForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	net := decimal.Zero
	for _, e := range r.store.entries {
		if e.ReceiverID == accountID {
			net = net.Add(e.Amount.Decimal())
		}
		if e.Sender() == accountID {
			net = net.Sub(e.Amount.Decimal())
		}
	}
	return net, nil
}
