package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

var errTxDone = errors.New("transaction already finished")

// TxManager implements usecase.TransactionManager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:   m.store,
		held:    make(map[string]bool),
		updated: make(map[string]*domain.Account),
	}, nil
}

// Tx stages writes until Commit and holds the account locks it acquired.
type Tx struct {
	store *Store

	mu      sync.Mutex
	held    map[string]bool
	created []*domain.Account
	updated map[string]*domain.Account
	entries []*domain.LedgerEntry
	done    bool
}

func (t *Tx) lock(ctx context.Context, id string) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return errTxDone
	}
	if t.held[id] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.store.acquire(ctx, id); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		t.store.release(id)
		return errTxDone
	}
	t.held[id] = true
	return nil
}

func (t *Tx) isHeld(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held[id]
}

func (t *Tx) staged(id string) *domain.Account {
	t.mu.Lock()
	defer t.mu.Unlock()
	if acc, ok := t.updated[id]; ok {
		return acc.Clone()
	}
	return nil
}

func (t *Tx) stage(fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	fn()
	return nil
}

// Commit publishes staged writes atomically and releases all locks.
func (t *Tx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}

	err := t.store.apply(t)
	t.finish()
	return err
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}

	t.finish()
	return nil
}

func (t *Tx) finish() {
	for id := range t.held {
		t.store.release(id)
	}
	t.held = nil
	t.created = nil
	t.updated = nil
	t.entries = nil
	t.done = true
}

func txFrom(tx usecase.Transaction) (*Tx, error) {
	memTx, ok := tx.(*Tx)
	if !ok || memTx == nil {
		return nil, errors.New("memory: foreign transaction")
	}
	return memTx, nil
}
