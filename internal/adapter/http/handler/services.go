package handler

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/usecase"
)

// Service interfaces let handlers be exercised with stubs.
type (
	accountService interface {
		Register(ctx context.Context, input usecase.RegisterInput) (*domain.Account, error)
		Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.Principal, error)
		PrincipalFor(account *domain.Account) *domain.Principal
		GetAccount(ctx context.Context, id string) (*domain.Account, error)
		Logout(ctx context.Context, accountID string, meta usecase.RequestMeta)
	}

	tokenIssuer interface {
		Generate(principal *domain.Principal) (string, time.Time, error)
	}

	transferService interface {
		TransferToPhone(ctx context.Context, input usecase.TransferToPhoneInput) (*usecase.TransferResult, error)
		Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.DepositResult, error)
	}

	walletService interface {
		GetBalance(ctx context.Context, accountID string, meta usecase.RequestMeta) (domain.Money, error)
		ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
		GetTransaction(ctx context.Context, accountID, entryID string, meta usecase.RequestMeta) (*domain.LedgerEntry, error)
	}

	notificationService interface {
		List(ctx context.Context, input usecase.ListNotificationsInput) ([]*domain.Notification, error)
		CountUnread(ctx context.Context, accountID string) (int64, error)
		MarkRead(ctx context.Context, accountID, id string) (*domain.Notification, error)
		MarkAllRead(ctx context.Context, accountID string) (int64, error)
	}

	ledgerService interface {
		CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
	}

	reconciliationService interface {
		ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
		GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
	}

	auditService interface {
		List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	}
)

var _ tokenIssuer = (*auth.JWTManager)(nil)
