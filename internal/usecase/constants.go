package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one orchestrator attempt, lock waits included.
	DefaultTransactionTimeout = 10 * time.Second

	// AuditTimeout bounds the independent audit write after a transfer.
	AuditTimeout = 3 * time.Second

	// DefaultBalanceCacheTTL is how long a cached balance may be served.
	DefaultBalanceCacheTTL = 5 * time.Second

	// DefaultCurrency is reported alongside every amount.
	DefaultCurrency = "USD"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request runs.
	IdempotencyPending = "processing"
)

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}
