package memory

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	c := *n
	if n.ReadAt != nil {
		t := *n.ReadAt
		c.ReadAt = &t
	}
	if n.DeliveredAt != nil {
		t := *n.DeliveredAt
		c.DeliveredAt = &t
	}
	return &c
}

// Create stores a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.notifIndex[n.ID] = len(r.store.notifications)
	r.store.notifications = append(r.store.notifications, cloneNotification(n))
	return nil
}

// GetByID retrieves a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx, ok := r.store.notifIndex[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return cloneNotification(r.store.notifications[idx]), nil
}

// ListByAccount returns an account's notifications, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	r.store.mu.RLock()
	var matched []*domain.Notification
	for i := len(r.store.notifications) - 1; i >= 0; i-- {
		n := r.store.notifications[i]
		if n.AccountID != accountID || (unreadOnly && n.Read) {
			continue
		}
		matched = append(matched, cloneNotification(n))
	}
	r.store.mu.RUnlock()

	return page(matched, limit, offset), nil
}

// CountUnread counts unread notifications of an account.
func (r *NotificationRepository) CountUnread(ctx context.Context, accountID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, n := range r.store.notifications {
		if n.AccountID == accountID && !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one notification read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx, ok := r.store.notifIndex[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	r.store.notifications[idx].MarkRead(readAt)
	return nil
}

// MarkAllRead marks all unread notifications of an account read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, accountID string, readAt time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var updated int64
	for _, n := range r.store.notifications {
		if n.AccountID == accountID && !n.Read {
			n.MarkRead(readAt)
			updated++
		}
	}
	return updated, nil
}

// GetUndelivered returns the oldest notifications not yet pushed.
func (r *NotificationRepository) GetUndelivered(ctx context.Context, limit int) ([]*domain.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var pending []*domain.Notification
	for _, n := range r.store.notifications {
		if n.DeliveredAt != nil {
			continue
		}
		pending = append(pending, cloneNotification(n))
		if limit > 0 && len(pending) == limit {
			break
		}
	}
	return pending, nil
}

// MarkDelivered records that a notification was pushed.
func (r *NotificationRepository) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx, ok := r.store.notifIndex[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	t := deliveredAt
	r.store.notifications[idx].DeliveredAt = &t
	return nil
}
