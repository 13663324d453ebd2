package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type seqIDGenerator struct {
	prefix string
	n      atomic.Int64
}

func (g *seqIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.n.Add(1))
}

type walletEnv struct {
	store         *memory.Store
	txManager     *memory.TxManager
	accounts      *memory.AccountRepository
	ledger        *memory.LedgerRepository
	audits        *memory.AuditRepository
	notifications *memory.NotificationRepository
	auditor       *usecase.AuditUseCase
}

func newWalletEnv(t *testing.T, lockTimeout time.Duration) *walletEnv {
	t.Helper()

	store := memory.NewStore(lockTimeout)
	audits := memory.NewAuditRepository(store)

	return &walletEnv{
		store:         store,
		txManager:     memory.NewTxManager(store),
		accounts:      memory.NewAccountRepository(store),
		ledger:        memory.NewLedgerRepository(store),
		audits:        audits,
		notifications: memory.NewNotificationRepository(store),
		auditor:       usecase.NewAuditUseCase(audits, &seqIDGenerator{prefix: "audit"}),
	}
}

func (e *walletEnv) transferUseCase(t *testing.T) *usecase.TransferUseCase {
	t.Helper()

	return usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:   e.txManager,
		AccountRepo: e.accounts,
		LedgerRepo:  e.ledger,
		IDGen:       &seqIDGenerator{prefix: "entry"},
		Auditor:     e.auditor,
		Notifier:    usecase.NewNotificationUseCase(e.notifications, e.accounts, &seqIDGenerator{prefix: "notif"}),
	})
}

func (e *walletEnv) openAccount(t *testing.T, id, phone string) *domain.Account {
	t.Helper()

	ctx := context.Background()
	acc := domain.NewAccount(id, "Holder "+id, phone, "hash", time.Now().UTC())

	tx, err := e.txManager.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, e.accounts.Create(ctx, tx, acc))
	require.NoError(t, tx.Commit(ctx))

	return acc
}

func (e *walletEnv) balance(t *testing.T, id string) string {
	t.Helper()

	acc, err := e.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance.String()
}

func money(s string) *domain.Money {
	m := domain.MustMoney(s)
	return &m
}
