package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestNotificationUseCase_NotifyTransfer(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	env.openAccount(t, "acc-a", "+15550000001")
	env.openAccount(t, "acc-b", "+15550000002")
	uc := usecase.NewNotificationUseCase(env.notifications, env.accounts, &seqIDGenerator{prefix: "n"})
	ctx := context.Background()

	entry, err := domain.NewTransferEntry("e1", "acc-a", "acc-b", domain.MustMoney("40"), time.Now())
	require.NoError(t, err)
	require.NoError(t, uc.NotifyTransfer(ctx, entry))

	sent, err := uc.List(ctx, usecase.ListNotificationsInput{AccountID: "acc-a"})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.NotificationTransferSent, sent[0].Type)
	assert.Equal(t, "You sent $40.00 to +15550000002", sent[0].Message)

	received, err := uc.List(ctx, usecase.ListNotificationsInput{AccountID: "acc-b"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "You received $40.00 from +15550000001", received[0].Message)
}

func TestNotificationUseCase_NotifyTransferAttemptsBoth(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("n").Times(2)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("first failed"))
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewNotificationUseCase(repo, nil, idGen)
	entry, err := domain.NewTransferEntry("e1", "acc-a", "acc-b", domain.MustMoney("1"), time.Now())
	require.NoError(t, err)

	err = uc.NotifyTransfer(context.Background(), entry)
	assert.ErrorContains(t, err, "first failed")
}

func TestNotificationUseCase_ReadFlow(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	uc := usecase.NewNotificationUseCase(env.notifications, env.accounts, &seqIDGenerator{prefix: "n"})
	ctx := context.Background()

	for _, id := range []string{"e1", "e2", "e3"} {
		entry, err := domain.NewDepositEntry(id, "acc-a", domain.MustMoney("5"), time.Now())
		require.NoError(t, err)
		require.NoError(t, uc.NotifyDeposit(ctx, entry))
	}

	count, err := uc.CountUnread(ctx, "acc-a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := uc.List(ctx, usecase.ListNotificationsInput{AccountID: "acc-a", Limit: 1000})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "$5.00 has been added to your wallet", list[0].Message)

	_, err = uc.MarkRead(ctx, "acc-other", list[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	read, err := uc.MarkRead(ctx, "acc-a", list[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.NotNil(t, read.ReadAt)

	unread, err := uc.List(ctx, usecase.ListNotificationsInput{AccountID: "acc-a", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	updated, err := uc.MarkAllRead(ctx, "acc-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	count, err = uc.CountUnread(ctx, "acc-a")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = uc.List(ctx, usecase.ListNotificationsInput{})
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
}
