package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

// Operation names used in metrics and logs.
const (
	OperationTransfer = "transfer"
	OperationDeposit  = "deposit"
)

// TransferUseCaseConfig holds the collaborators of TransferUseCase.
// TxManager, AccountRepo, LedgerRepo and IDGen are required. Currency is
// recorded with audited amounts and defaults to DefaultCurrency.
type TransferUseCaseConfig struct {
	TxManager   TransactionManager
	AccountRepo AccountRepository
	LedgerRepo  LedgerRepository
	IDGen       IDGenerator
	Retrier     Retrier
	Notifier    Notifier
	Auditor     AuditRecorder
	Cache       Cache
	Metrics     MetricsRecorder
	Logger      *zerolog.Logger
	Timeout     time.Duration
	Currency    string
}

// TransferUseCase moves money between accounts and records deposits. Every call
// runs as one unit of work over rows locked in ascending id order.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	retrier     Retrier
	notifier    Notifier
	auditor     AuditRecorder
	cache       Cache
	metrics     MetricsRecorder
	logger      zerolog.Logger
	timeout     time.Duration
	currency    string
	now         func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(cfg TransferUseCaseConfig) *TransferUseCase {
	uc := &TransferUseCase{
		txManager:   cfg.TxManager,
		accountRepo: cfg.AccountRepo,
		ledgerRepo:  cfg.LedgerRepo,
		idGen:       cfg.IDGen,
		retrier:     cfg.Retrier,
		notifier:    cfg.Notifier,
		auditor:     cfg.Auditor,
		cache:       cfg.Cache,
		metrics:     cfg.Metrics,
		logger:      zerolog.Nop(),
		timeout:     cfg.Timeout,
		currency:    cfg.Currency,
		now:         func() time.Time { return time.Now().UTC() },
	}

	if cfg.Logger != nil {
		uc.logger = cfg.Logger.With().Str("component", "transfer_usecase").Logger()
	}
	if uc.retrier == nil {
		uc.retrier = noRetry{}
	}
	if uc.timeout <= 0 {
		uc.timeout = DefaultTransactionTimeout
	}
	if uc.currency == "" {
		uc.currency = DefaultCurrency
	}

	return uc
}

// TransferInput addresses the receiver by account id.
type TransferInput struct {
	Meta       RequestMeta
	Amount     *domain.Money
	SenderID   string
	ReceiverID string
}

// TransferToPhoneInput addresses the receiver by phone number.
type TransferToPhoneInput struct {
	Meta           RequestMeta
	Amount         *domain.Money
	SenderID       string
	RecipientPhone string
}

// DepositInput credits one account.
type DepositInput struct {
	Meta      RequestMeta
	Amount    *domain.Money
	AccountID string
}

// TransferResult is returned after a committed transfer.
type TransferResult struct {
	Entry          *domain.LedgerEntry
	SenderBalance  domain.Money
	RecipientPhone string
}

// DepositResult is returned after a committed deposit.
type DepositResult struct {
	Entry   *domain.LedgerEntry
	Balance domain.Money
}

// Transfer moves input.Amount from the sender to the receiver.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	start := time.Now()

	result, err := uc.executeTransfer(ctx, input.SenderID, input.ReceiverID, "", input.Amount)
	uc.finishTransfer(ctx, input.SenderID, input.ReceiverID, "", input.Amount, input.Meta, result, err, start)

	return result, err
}

// TransferToPhone resolves the recipient's phone to an account and transfers to it.
// Resolution is a non-locking read. If the phone moved to another account before
// the lock was taken the transfer fails with ErrRecipientNotFound instead of
// being redirected.
func (uc *TransferUseCase) TransferToPhone(ctx context.Context, input TransferToPhoneInput) (*TransferResult, error) {
	start := time.Now()

	receiverID, phone, err := uc.resolveRecipient(ctx, input.SenderID, input.RecipientPhone, input.Amount)

	var result *TransferResult
	if err == nil {
		result, err = uc.executeTransfer(ctx, input.SenderID, receiverID, phone, input.Amount)
	}

	uc.finishTransfer(ctx, input.SenderID, receiverID, input.RecipientPhone, input.Amount, input.Meta, result, err, start)

	return result, err
}

// Deposit credits input.Amount to the account.
func (uc *TransferUseCase) Deposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	start := time.Now()

	result, err := uc.executeDeposit(ctx, input.AccountID, input.Amount)
	uc.finishDeposit(ctx, input, result, err, start)

	return result, err
}

// resolveRecipient only checks presence. The self-transfer and amount checks
// need the resolved id and run afterwards in executeTransfer.
func (uc *TransferUseCase) resolveRecipient(ctx context.Context, senderID, rawPhone string, amount *domain.Money) (string, string, error) {
	if senderID == "" || amount == nil || strings.TrimSpace(rawPhone) == "" {
		return "", "", domain.ErrMissingArgument
	}

	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return "", "", err
	}

	recipient, err := uc.accountRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", "", fmt.Errorf("%w: %s", domain.ErrRecipientNotFound, phone)
		}
		return "", "", domain.NewInfrastructureError("resolve recipient", err)
	}

	return recipient.ID, phone, nil
}

func (uc *TransferUseCase) executeTransfer(ctx context.Context, senderID, receiverID, expectedPhone string, amount *domain.Money) (*TransferResult, error) {
	// Speculative checks; repeated under the lock.
	if err := domain.ValidateTransferRequest(senderID, receiverID, amount); err != nil {
		return nil, err
	}

	var result *TransferResult
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.transferOnce(ctx, senderID, receiverID, expectedPhone, *amount)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) transferOnce(ctx context.Context, senderID, receiverID, expectedPhone string, amount domain.Money) (*TransferResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// 1. Fixed lock order (DEADLOCK PREVENTION)
	accountIDs := []string{senderID, receiverID}
	sort.Strings(accountIDs)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, domain.NewInfrastructureError("begin transaction", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, domain.NewInfrastructureError("lock accounts", err)
	}

	accountMap := buildAccountMap(accounts)
	sender := accountMap[senderID]
	receiver := accountMap[receiverID]

	if sender == nil {
		return nil, domain.ErrAccountNotFound
	}

	if receiver == nil {
		return nil, domain.ErrRecipientNotFound
	}

	if expectedPhone != "" && receiver.Phone != expectedPhone {
		uc.logger.Warn().
			Str("recipient_phone", expectedPhone).
			Str("resolved_account_id", receiverID).
			Msg("recipient phone changed between lookup and lock")

		return nil, fmt.Errorf("%w: %s no longer belongs to the resolved account", domain.ErrRecipientNotFound, expectedPhone)
	}

	// 2-3. Re-validate against the locked balance
	if err := domain.ValidateTransfer(senderID, receiverID, &amount, &sender.Balance); err != nil {
		return nil, err
	}

	// 4. Mutate, record, persist
	now := uc.now()

	if err := sender.Debit(amount, now); err != nil {
		return nil, err
	}
	receiver.Credit(amount, now)

	entry, err := domain.NewTransferEntry(uc.idGen.Generate(), senderID, receiverID, amount, now)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Save(ctx, tx, sender); err != nil {
		return nil, domain.NewInfrastructureError("save sender", err)
	}

	if err := uc.accountRepo.Save(ctx, tx, receiver); err != nil {
		return nil, domain.NewInfrastructureError("save receiver", err)
	}

	if err := uc.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, domain.NewInfrastructureError("append ledger entry", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewInfrastructureError("commit transfer", err)
	}

	return &TransferResult{
		Entry:          entry,
		SenderBalance:  sender.Balance,
		RecipientPhone: receiver.Phone,
	}, nil
}

func (uc *TransferUseCase) executeDeposit(ctx context.Context, accountID string, amount *domain.Money) (*DepositResult, error) {
	if err := domain.ValidateDeposit(accountID, amount); err != nil {
		return nil, err
	}

	var result *DepositResult
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.depositOnce(ctx, accountID, *amount)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) depositOnce(ctx context.Context, accountID string, amount domain.Money) (*DepositResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, domain.NewInfrastructureError("begin transaction", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, domain.NewInfrastructureError("lock account", err)
	}

	now := uc.now()
	account.Credit(amount, now)

	entry, err := domain.NewDepositEntry(uc.idGen.Generate(), accountID, amount, now)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Save(ctx, tx, account); err != nil {
		return nil, domain.NewInfrastructureError("save account", err)
	}

	if err := uc.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, domain.NewInfrastructureError("append ledger entry", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewInfrastructureError("commit deposit", err)
	}

	return &DepositResult{Entry: entry, Balance: account.Balance}, nil
}

// finishTransfer runs the post-commit and post-failure side effects. None of
// them can change the outcome returned to the caller.
func (uc *TransferUseCase) finishTransfer(
	ctx context.Context,
	senderID, receiverID, recipientPhone string,
	amount *domain.Money,
	meta RequestMeta,
	result *TransferResult,
	err error,
	start time.Time,
) {
	ctx = context.WithoutCancel(ctx)
	details := domain.JSON{
		"senderId": senderID,
		"currency": uc.currency,
	}
	if receiverID != "" {
		details["receiverId"] = receiverID
	}
	if recipientPhone != "" {
		details["recipientPhone"] = recipientPhone
	}
	if amount != nil {
		details["amount"] = amount.String()
	}

	entityID := ""
	var amountValue float64
	if amount != nil {
		amountValue = amount.InexactFloat64()
	}

	if err != nil {
		uc.logFailure(OperationTransfer, err, senderID)
	} else {
		entityID = result.Entry.ID
		uc.logger.Info().
			Str("transaction_id", result.Entry.ID).
			Str("sender_id", senderID).
			Str("receiver_id", receiverID).
			Str("amount", result.Entry.Amount.String()).
			Msg("transfer committed")

		uc.invalidateBalances(ctx, senderID, receiverID)
		if uc.notifier != nil {
			if nerr := uc.notifier.NotifyTransfer(ctx, result.Entry); nerr != nil {
				uc.logger.Error().Err(nerr).Str("transaction_id", result.Entry.ID).Msg("transfer notification failed")
			}
		}
	}

	uc.audit(ctx, AuditEntry{
		Meta:       meta,
		ActorID:    senderID,
		Action:     domain.AuditActionMoneyTransferred,
		EntityType: domain.AuditEntityTransaction,
		EntityID:   entityID,
		Details:    details,
		Err:        err,
	})

	if uc.metrics != nil {
		uc.metrics.ObserveOperation(OperationTransfer, amountValue, time.Since(start), err)
	}
}

func (uc *TransferUseCase) finishDeposit(ctx context.Context, input DepositInput, result *DepositResult, err error, start time.Time) {
	ctx = context.WithoutCancel(ctx)
	details := domain.JSON{"currency": uc.currency}

	var amountValue float64
	if input.Amount != nil {
		details["amount"] = input.Amount.String()
		amountValue = input.Amount.InexactFloat64()
	}

	entityID := ""
	if err != nil {
		uc.logFailure(OperationDeposit, err, input.AccountID)
	} else {
		entityID = result.Entry.ID
		uc.logger.Info().
			Str("transaction_id", result.Entry.ID).
			Str("account_id", input.AccountID).
			Str("amount", result.Entry.Amount.String()).
			Msg("deposit committed")

		uc.invalidateBalances(ctx, input.AccountID)
		if uc.notifier != nil {
			if nerr := uc.notifier.NotifyDeposit(ctx, result.Entry); nerr != nil {
				uc.logger.Error().Err(nerr).Str("transaction_id", result.Entry.ID).Msg("deposit notification failed")
			}
		}
	}

	uc.audit(ctx, AuditEntry{
		Meta:       input.Meta,
		ActorID:    input.AccountID,
		Action:     domain.AuditActionFundsAdded,
		EntityType: domain.AuditEntityTransaction,
		EntityID:   entityID,
		Details:    details,
		Err:        err,
	})

	if uc.metrics != nil {
		uc.metrics.ObserveOperation(OperationDeposit, amountValue, time.Since(start), err)
	}
}

func (uc *TransferUseCase) logFailure(operation string, err error, accountID string) {
	event := uc.logger.Info()
	if !domain.IsValidation(err) && !domain.IsBusiness(err) {
		event = uc.logger.Error()
	}

	event.Err(err).
		Str("operation", operation).
		Str("account_id", accountID).
		Str("error_kind", domain.ErrorKind(err)).
		Bool("retryable", domain.IsRetryable(err)).
		Msg("operation rejected")
}

func (uc *TransferUseCase) audit(ctx context.Context, entry AuditEntry) {
	if uc.auditor == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, AuditTimeout)
	defer cancel()

	if err := uc.auditor.Record(ctx, entry); err != nil {
		uc.logger.Error().Err(err).
			Str("action", string(entry.Action)).
			Str("entity_id", entry.EntityID).
			Msg("audit record failed")
	}
}

func (uc *TransferUseCase) invalidateBalances(ctx context.Context, accountIDs ...string) {
	if uc.cache == nil {
		return
	}

	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, balanceCacheKey(id))
	}

	if err := uc.cache.Delete(ctx, keys...); err != nil {
		uc.logger.Warn().Err(err).Strs("keys", keys).Msg("balance cache invalidation failed")
	}
}

func buildAccountMap(accounts []*domain.Account) map[string]*domain.Account {
	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, acc := range accounts {
		accountMap[acc.ID] = acc
	}
	return accountMap
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}
