package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// NotificationUseCase stores wallet notifications and serves them back to their owner.
// Delivery to devices is done by the notification dispatcher.
type NotificationUseCase struct {
	notificationRepo NotificationRepository
	accountRepo      AccountRepository
	idGen            IDGenerator
	now              func() time.Time
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(notificationRepo NotificationRepository, accountRepo AccountRepository, idGen IDGenerator) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		accountRepo:      accountRepo,
		idGen:            idGen,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// NotifyTransfer tells both parties about a committed transfer.
func (uc *NotificationUseCase) NotifyTransfer(ctx context.Context, entry *domain.LedgerEntry) error {
	senderID := entry.Sender()
	now := uc.now()

	sent := domain.NewTransferSentNotification(
		uc.idGen.Generate(), senderID, entry.ID, entry.Amount, uc.displayName(ctx, entry.ReceiverID), now)
	received := domain.NewTransferReceivedNotification(
		uc.idGen.Generate(), entry.ReceiverID, entry.ID, entry.Amount, uc.displayName(ctx, senderID), now)

	// Both are attempted; one failing must not suppress the other.
	return errors.Join(
		uc.notificationRepo.Create(ctx, sent),
		uc.notificationRepo.Create(ctx, received),
	)
}

// NotifyDeposit tells the owner about a committed deposit.
func (uc *NotificationUseCase) NotifyDeposit(ctx context.Context, entry *domain.LedgerEntry) error {
	n := domain.NewDepositNotification(uc.idGen.Generate(), entry.ReceiverID, entry.ID, entry.Amount, uc.now())
	return uc.notificationRepo.Create(ctx, n)
}

func (uc *NotificationUseCase) displayName(ctx context.Context, accountID string) string {
	if uc.accountRepo == nil {
		return accountID
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return accountID
	}

	return account.Phone
}

// ListNotificationsInput represents pagination for notifications.
type ListNotificationsInput struct {
	AccountID  string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// List returns notifications for an account, most recent first.
func (uc *NotificationUseCase) List(ctx context.Context, input ListNotificationsInput) ([]*domain.Notification, error) {
	if input.AccountID == "" {
		return nil, domain.ErrMissingArgument
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return uc.notificationRepo.ListByAccount(ctx, input.AccountID, input.UnreadOnly, limit, domain.ClampOffset(input.Offset))
}

// CountUnread returns the number of unread notifications.
func (uc *NotificationUseCase) CountUnread(ctx context.Context, accountID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, accountID)
}

// MarkRead marks one notification read. Another account's notification is
// reported as not found.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, accountID, id string) (*domain.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if n.AccountID != accountID {
		return nil, domain.ErrNotificationNotFound
	}

	if n.Read {
		return n, nil
	}

	now := uc.now()
	if err := uc.notificationRepo.MarkRead(ctx, id, now); err != nil {
		return nil, err
	}

	n.MarkRead(now)
	return n, nil
}

// MarkAllRead marks every unread notification of the account as read.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, accountID string) (int64, error) {
	return uc.notificationRepo.MarkAllRead(ctx, accountID, uc.now())
}
