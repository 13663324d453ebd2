package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

func TestLedgerRepository_Queries(t *testing.T) {
	store := NewStore(time.Second)
	seedAccount(t, store, "a", "+15550000001", "0")
	seedAccount(t, store, "b", "+15550000002", "0")

	ctx := context.Background()
	txm := NewTxManager(store)
	ledger := NewLedgerRepository(store)
	now := time.Now().UTC()

	dep, err := domain.NewDepositEntry("e1", "a", domain.MustMoney("100.00"), now)
	require.NoError(t, err)
	xfer, err := domain.NewTransferEntry("e2", "a", "b", domain.MustMoney("40.00"), now.Add(time.Second))
	require.NoError(t, err)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, ledger.Append(ctx, tx, dep))
	require.NoError(t, ledger.Append(ctx, tx, xfer))
	require.NoError(t, tx.Commit(ctx))

	entries, err := ledger.ListByAccount(ctx, "a", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e2", entries[0].ID)
	assert.Equal(t, "e1", entries[1].ID)

	entries, err = ledger.ListByAccount(ctx, "a", 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)

	count, err := ledger.CountByAccount(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deposits, err := ledger.SumDeposits(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", deposits.String())

	net, err := ledger.NetForAccount(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "60", net.String())
}

func TestAuditRepository_ListFilters(t *testing.T) {
	store := NewStore(time.Second)
	repo := NewAuditRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "1", ActorID: "a", Action: domain.AuditActionUserLogin}))
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "2", ActorID: "b", Action: domain.AuditActionMoneyTransferred}))
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "3", ActorID: "a", Action: domain.AuditActionMoneyTransferred}))

	logs, err := repo.List(ctx, domain.AuditFilter{ActorID: "a", Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "3", logs[0].ID)

	logs, err = repo.List(ctx, domain.AuditFilter{Action: domain.AuditActionMoneyTransferred, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = repo.List(ctx, domain.AuditFilter{Limit: 2, Offset: -9})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "3", logs[0].ID)
}

func TestNotificationRepository_Lifecycle(t *testing.T) {
	store := NewStore(time.Second)
	repo := NewNotificationRepository(store)
	ctx := context.Background()
	now := time.Now().UTC()

	n1 := domain.NewDepositNotification("n1", "a", "e1", domain.MustMoney("1.00"), now)
	n2 := domain.NewDepositNotification("n2", "a", "e2", domain.MustMoney("2.00"), now)
	require.NoError(t, repo.Create(ctx, n1))
	require.NoError(t, repo.Create(ctx, n2))

	unread, err := repo.CountUnread(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, repo.MarkRead(ctx, "n1", now))
	list, err := repo.ListByAccount(ctx, "a", true, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n2", list[0].ID)

	pending, err := repo.GetUndelivered(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "n1", pending[0].ID)

	require.NoError(t, repo.MarkDelivered(ctx, "n1", now))
	pending, err = repo.GetUndelivered(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "n2", pending[0].ID)

	updated, err := repo.MarkAllRead(ctx, "a", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}
