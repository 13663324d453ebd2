package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// WalletUseCase serves non-locking reads of balances and history.
type WalletUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	cache       Cache
	auditor     AuditRecorder
	logger      zerolog.Logger
	cacheTTL    time.Duration
}

// NewWalletUseCase creates a new WalletUseCase. cache and auditor may be nil.
func NewWalletUseCase(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	cache Cache,
	auditor AuditRecorder,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *WalletUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultBalanceCacheTTL
	}

	return &WalletUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		auditor:     auditor,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// ListTransactionsInput represents paginated history parameters.
type ListTransactionsInput struct {
	Meta      RequestMeta
	AccountID string
	Page      int
	Size      int
}

// TransactionPage is one page of ledger entries.
type TransactionPage struct {
	Entries []*domain.LedgerEntry
	Page    int
	Size    int
	Total   int64
}

// GetBalance returns the current balance of an account.
// A cached value may lag a commit by at most the cache TTL.
func (uc *WalletUseCase) GetBalance(ctx context.Context, accountID string, meta RequestMeta) (domain.Money, error) {
	balance, err := uc.loadBalance(ctx, accountID)

	uc.audit(ctx, AuditEntry{
		Meta:       meta,
		ActorID:    accountID,
		Action:     domain.AuditActionBalanceChecked,
		EntityType: domain.AuditEntityWallet,
		EntityID:   accountID,
		Err:        err,
	})

	return balance, err
}

func (uc *WalletUseCase) loadBalance(ctx context.Context, accountID string) (domain.Money, error) {
	if accountID == "" {
		return domain.Money{}, domain.ErrMissingArgument
	}

	key := balanceCacheKey(accountID)
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		if err == nil {
			if balance, perr := domain.MoneyFromString(cached); perr == nil {
				return balance, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("balance cache read failed")
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, account.Balance.String(), uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("balance cache write failed")
		}
	}

	return account.Balance, nil
}

// ListTransactions returns the account's ledger entries, most recent first.
func (uc *WalletUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	page, err := uc.listTransactions(ctx, input)

	uc.audit(ctx, AuditEntry{
		Meta:       input.Meta,
		ActorID:    input.AccountID,
		Action:     domain.AuditActionTransactionHistoryViewed,
		EntityType: domain.AuditEntityTransaction,
		EntityID:   input.AccountID,
		Details:    domain.JSON{"page": input.Page, "size": input.Size},
		Err:        err,
	})

	return page, err
}

func (uc *WalletUseCase) listTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	if input.AccountID == "" {
		return nil, domain.ErrMissingArgument
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	page, size := domain.ValidatePagination(input.Page, input.Size)

	total, err := uc.ledgerRepo.CountByAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.ledgerRepo.ListByAccount(ctx, input.AccountID, size, page*size)
	if err != nil {
		return nil, err
	}

	return &TransactionPage{
		Entries: entries,
		Page:    page,
		Size:    size,
		Total:   total,
	}, nil
}

// GetTransaction returns one entry if the account took part in it.
func (uc *WalletUseCase) GetTransaction(ctx context.Context, accountID, entryID string, meta RequestMeta) (*domain.LedgerEntry, error) {
	entry, err := uc.ledgerRepo.GetByID(ctx, entryID)
	if err == nil && !entry.Involves(accountID) {
		entry, err = nil, domain.ErrEntryNotFound
	}

	uc.audit(ctx, AuditEntry{
		Meta:       meta,
		ActorID:    accountID,
		Action:     domain.AuditActionTransactionViewed,
		EntityType: domain.AuditEntityTransaction,
		EntityID:   entryID,
		Err:        err,
	})

	return entry, err
}

func (uc *WalletUseCase) audit(ctx context.Context, entry AuditEntry) {
	if uc.auditor == nil {
		return
	}

	if err := uc.auditor.Record(context.WithoutCancel(ctx), entry); err != nil {
		uc.logger.Error().Err(err).Str("action", string(entry.Action)).Msg("audit record failed")
	}
}
