package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
)

// NotificationRepository implements usecase.NotificationRepository.
// Rows double as the dispatcher's delivery outbox via delivered_at.
type NotificationRepository struct {
	queries *generated.Queries
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db generated.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: generated.New(db),
	}
}

// Create stores a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.queries.CreateNotification(ctx, generated.CreateNotificationParams{
		ID:        n.ID,
		AccountID: n.AccountID,
		EntryID:   n.EntryID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.Read,
		CreatedAt: timeToPgTimestamptz(n.CreatedAt),
	})
}

// GetByID retrieves a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	row, err := r.queries.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}

		return nil, err
	}

	return rowToNotification(row), nil
}

// ListByAccount returns an account's notifications, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	rows, err := r.queries.ListNotificationsByAccount(ctx, generated.ListNotificationsByAccountParams{
		AccountID:  accountID,
		UnreadOnly: unreadOnly,
		RowLimit:   int32(limit),
		RowOffset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToNotifications(rows), nil
}

// CountUnread counts unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, accountID string) (int64, error) {
	return r.queries.CountUnreadNotifications(ctx, accountID)
}

// MarkRead marks one notification read. Already-read notifications are left unchanged.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	_, err := r.queries.MarkNotificationRead(ctx, generated.MarkNotificationReadParams{
		ID:     id,
		ReadAt: timeToPgTimestamptz(readAt),
	})
	return err
}

// MarkAllRead marks all unread notifications of the account read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, accountID string, readAt time.Time) (int64, error) {
	return r.queries.MarkAllNotificationsRead(ctx, generated.MarkAllNotificationsReadParams{
		AccountID: accountID,
		ReadAt:    timeToPgTimestamptz(readAt),
	})
}

// GetUndelivered retrieves the oldest notifications not yet pushed.
func (r *NotificationRepository) GetUndelivered(ctx context.Context, limit int) ([]*domain.Notification, error) {
	rows, err := r.queries.GetUndeliveredNotifications(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	return rowsToNotifications(rows), nil
}

// MarkDelivered records that a notification was pushed.
func (r *NotificationRepository) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error {
	n, err := r.queries.MarkNotificationDelivered(ctx, generated.MarkNotificationDeliveredParams{
		ID:          id,
		DeliveredAt: timeToPgTimestamptz(deliveredAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}

func rowsToNotifications(rows []generated.Notification) []*domain.Notification {
	notifications := make([]*domain.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, rowToNotification(row))
	}
	return notifications
}

func rowToNotification(row generated.Notification) *domain.Notification {
	return &domain.Notification{
		ID:          row.ID,
		AccountID:   row.AccountID,
		EntryID:     row.EntryID,
		Type:        domain.NotificationType(row.Type),
		Title:       row.Title,
		Message:     row.Message,
		Read:        row.IsRead,
		ReadAt:      pgTimestamptzToPtr(row.ReadAt),
		DeliveredAt: pgTimestamptzToPtr(row.DeliveredAt),
		CreatedAt:   row.CreatedAt.Time,
	}
}
