package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestWalletUseCase_GetBalanceReadThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	uc := usecase.NewWalletUseCase(accounts, nil, cache, nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "balance:acc-1").Return("", usecase.ErrCacheMiss),
		accounts.EXPECT().GetByID(gomock.Any(), "acc-1").Return(&domain.Account{ID: "acc-1", Balance: domain.MustMoney("12.34")}, nil),
		cache.EXPECT().Set(gomock.Any(), "balance:acc-1", "12.34", time.Minute).Return(nil),
	)

	balance, err := uc.GetBalance(ctx, "acc-1", usecase.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "12.34", balance.String())

	cache.EXPECT().Get(gomock.Any(), "balance:acc-1").Return("12.34", nil)

	balance, err = uc.GetBalance(ctx, "acc-1", usecase.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "12.34", balance.String())
}

func TestWalletUseCase_GetBalanceCacheErrorsFallBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	uc := usecase.NewWalletUseCase(accounts, nil, cache, nil, 0, zerolog.Nop())

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", errors.New("redis down"))
	accounts.EXPECT().GetByID(gomock.Any(), "acc-1").Return(&domain.Account{ID: "acc-1", Balance: domain.MustMoney("1")}, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), usecase.DefaultBalanceCacheTTL).Return(errors.New("redis down"))

	balance, err := uc.GetBalance(context.Background(), "acc-1", usecase.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "1.00", balance.String())
}

func TestWalletUseCase_GetBalanceUnknownAccount(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	uc := usecase.NewWalletUseCase(env.accounts, env.ledger, nil, env.auditor, 0, zerolog.Nop())

	_, err := uc.GetBalance(context.Background(), "ghost", usecase.RequestMeta{RequestID: "req-1"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	logs, err := env.audits.List(context.Background(), domain.AuditFilter{Action: domain.AuditActionBalanceChecked, Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-1", logs[0].RequestID)
	assert.Equal(t, domain.AuditStatusFailure, logs[0].Status)
}

func TestWalletUseCase_ListTransactions(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	env.openAccount(t, "acc-a", "+15550000001")
	env.openAccount(t, "acc-b", "+15550000002")
	transfers := env.transferUseCase(t)
	ctx := context.Background()

	_, err := transfers.Deposit(ctx, usecase.DepositInput{AccountID: "acc-a", Amount: money("100")})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := transfers.Transfer(ctx, usecase.TransferInput{SenderID: "acc-a", ReceiverID: "acc-b", Amount: money("1")})
		require.NoError(t, err)
	}

	uc := usecase.NewWalletUseCase(env.accounts, env.ledger, nil, nil, 0, zerolog.Nop())

	page, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{AccountID: "acc-a", Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Size)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, domain.DirectionSent, page.Entries[0].Direction("acc-a"))

	page, err = uc.ListTransactions(ctx, usecase.ListTransactionsInput{AccountID: "acc-b", Page: -1, Size: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 20, page.Size)
	require.Len(t, page.Entries, 4)
	assert.Equal(t, domain.DirectionReceived, page.Entries[0].Direction("acc-b"))

	_, err = uc.ListTransactions(ctx, usecase.ListTransactionsInput{AccountID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestWalletUseCase_ListTransactionsHugePage(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	env.openAccount(t, "acc-a", "+15550000001")
	transfers := env.transferUseCase(t)
	ctx := context.Background()

	_, err := transfers.Deposit(ctx, usecase.DepositInput{AccountID: "acc-a", Amount: money("5")})
	require.NoError(t, err)

	uc := usecase.NewWalletUseCase(env.accounts, env.ledger, nil, nil, 0, zerolog.Nop())

	page, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{AccountID: "acc-a", Page: 100000000000000000, Size: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, domain.MaxOffset/100, page.Page)
	assert.Empty(t, page.Entries)
}

func TestWalletUseCase_GetTransactionOwnership(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	env.openAccount(t, "acc-a", "+15550000001")
	env.openAccount(t, "acc-c", "+15550000003")
	ctx := context.Background()

	res, err := env.transferUseCase(t).Deposit(ctx, usecase.DepositInput{AccountID: "acc-a", Amount: money("1")})
	require.NoError(t, err)

	uc := usecase.NewWalletUseCase(env.accounts, env.ledger, nil, nil, 0, zerolog.Nop())

	entry, err := uc.GetTransaction(ctx, "acc-a", res.Entry.ID, usecase.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, res.Entry.ID, entry.ID)

	_, err = uc.GetTransaction(ctx, "acc-c", res.Entry.ID, usecase.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
