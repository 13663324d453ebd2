package domain

import (
	"fmt"
	"time"
)

// NotificationType identifies what happened to the recipient's wallet.
type NotificationType string

const (
	NotificationTransferSent     NotificationType = "TRANSFER_SENT"
	NotificationTransferReceived NotificationType = "TRANSFER_RECEIVED"
	NotificationDeposit          NotificationType = "DEPOSIT"
)

// Notification is a message for one account. Delivered tracks push delivery
// by the dispatcher; Read tracks the user's acknowledgement.
type Notification struct {
	CreatedAt   time.Time
	ReadAt      *time.Time
	DeliveredAt *time.Time
	ID          string
	AccountID   string
	EntryID     string
	Type        NotificationType
	Title       string
	Message     string
	Read        bool
}

// NewTransferSentNotification tells the sender their transfer went through.
func NewTransferSentNotification(id, accountID, entryID string, amount Money, recipient string, now time.Time) *Notification {
	return &Notification{
		ID:        id,
		AccountID: accountID,
		EntryID:   entryID,
		Type:      NotificationTransferSent,
		Title:     "Money Sent",
		Message:   fmt.Sprintf("You sent $%s to %s", amount, recipient),
		CreatedAt: now,
	}
}

// NewTransferReceivedNotification tells the receiver funds arrived.
func NewTransferReceivedNotification(id, accountID, entryID string, amount Money, sender string, now time.Time) *Notification {
	return &Notification{
		ID:        id,
		AccountID: accountID,
		EntryID:   entryID,
		Type:      NotificationTransferReceived,
		Title:     "Money Received",
		Message:   fmt.Sprintf("You received $%s from %s", amount, sender),
		CreatedAt: now,
	}
}

// NewDepositNotification tells the account owner a deposit was credited.
func NewDepositNotification(id, accountID, entryID string, amount Money, now time.Time) *Notification {
	return &Notification{
		ID:        id,
		AccountID: accountID,
		EntryID:   entryID,
		Type:      NotificationDeposit,
		Title:     "Funds Added",
		Message:   fmt.Sprintf("$%s has been added to your wallet", amount),
		CreatedAt: now,
	}
}

// MarkRead sets the read flag once.
func (n *Notification) MarkRead(now time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &now
}
