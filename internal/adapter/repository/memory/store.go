// Package memory is a process-local storage backend. Row locks are emulated
// with one semaphore per account id and writes become visible on Commit.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// DefaultLockTimeout bounds how long a transaction waits for one account lock.
const DefaultLockTimeout = 5 * time.Second

// Store holds committed state shared by all repositories of one backend.
type Store struct {
	mu            sync.RWMutex
	accounts      map[string]*domain.Account
	phones        map[string]string
	entries       []*domain.LedgerEntry
	entryIndex    map[string]int
	auditLogs     []*domain.AuditLog
	notifications []*domain.Notification
	notifIndex    map[string]int

	locksMu     sync.Mutex
	locks       map[string]chan struct{}
	lockTimeout time.Duration
}

// NewStore creates an empty store. A non-positive lockTimeout uses DefaultLockTimeout.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &Store{
		accounts:    make(map[string]*domain.Account),
		phones:      make(map[string]string),
		entryIndex:  make(map[string]int),
		notifIndex:  make(map[string]int),
		locks:       make(map[string]chan struct{}),
		lockTimeout: lockTimeout,
	}
}

func (s *Store) lockFor(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

// acquire takes the row lock for id, giving up after the lock timeout.
// A context deadline while waiting is reported as a lock timeout too.
func (s *Store) acquire(ctx context.Context, id string) error {
	ch := s.lockFor(id)

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ErrLockTimeout
		}
		return ctx.Err()
	}
}

func (s *Store) release(id string) {
	<-s.lockFor(id)
}

func (s *Store) apply(tx *Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range tx.created {
		if _, taken := s.phones[acc.Phone]; taken {
			return domain.ErrPhoneTaken
		}
		if _, exists := s.accounts[acc.ID]; exists {
			return errors.New("account already exists: " + acc.ID)
		}
	}

	for _, acc := range tx.created {
		s.accounts[acc.ID] = acc.Clone()
		s.phones[acc.Phone] = acc.ID
	}

	for id, acc := range tx.updated {
		if _, exists := s.accounts[id]; !exists {
			return domain.ErrAccountNotFound
		}
		s.accounts[id] = acc.Clone()
	}

	for _, e := range tx.entries {
		entry := *e
		s.entryIndex[entry.ID] = len(s.entries)
		s.entries = append(s.entries, &entry)
	}

	return nil
}
