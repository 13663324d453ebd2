package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// AccountRepository defines data access for accounts.
// Only TransferUseCase may call the ForUpdate methods.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)
	// GetByIDForUpdate locks one account until tx ends.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetByIDsForUpdate locks accounts in the order given.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	Save(ctx context.Context, tx Transaction, account *domain.Account) error
	SumBalances(ctx context.Context) (decimal.Decimal, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// LedgerRepository is the append-only store of ledger entries.
type LedgerRepository interface {
	Append(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	// ListByAccount returns entries where the account is sender or receiver, most recent first.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
	SumDeposits(ctx context.Context) (decimal.Decimal, error)
	// NetForAccount is credits minus debits for one account.
	NetForAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByAccount(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, accountID string) (int64, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
	MarkAllRead(ctx context.Context, accountID string, readAt time.Time) (int64, error)
	GetUndelivered(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error
}

// Transaction represents a storage unit of work.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Notifier receives post-commit notifications. Callers log and discard its errors.
type Notifier interface {
	NotifyTransfer(ctx context.Context, entry *domain.LedgerEntry) error
	NotifyDeposit(ctx context.Context, entry *domain.LedgerEntry) error
}

// AuditRecorder writes audit records in their own unit of work.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// MetricsRecorder observes completed orchestrator calls.
type MetricsRecorder interface {
	ObserveOperation(operation string, amount float64, duration time.Duration, err error)
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the client may retry it.
	Release(ctx context.Context, key string) error
}
