package domain

import (
	"fmt"
	"time"
)

// EntryKind tags a ledger entry.
type EntryKind string

const (
	EntryKindTransfer EntryKind = "TRANSFER"
	EntryKindDeposit  EntryKind = "DEPOSIT"
)

// Direction of an entry as seen by one account.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
	DirectionDeposit  = "deposit"
)

// LedgerEntry is the immutable record of one completed money movement.
// SenderID is nil only for deposits.
type LedgerEntry struct {
	CreatedAt  time.Time
	SenderID   *string
	ID         string
	ReceiverID string
	Kind       EntryKind
	Amount     Money
}

// NewTransferEntry records a movement from sender to receiver.
func NewTransferEntry(id, senderID, receiverID string, amount Money, now time.Time) (*LedgerEntry, error) {
	if id == "" || senderID == "" || receiverID == "" {
		return nil, ErrMissingArgument
	}

	if senderID == receiverID {
		return nil, ErrSelfTransfer
	}

	if amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	sender := senderID
	return &LedgerEntry{
		ID:         id,
		SenderID:   &sender,
		ReceiverID: receiverID,
		Amount:     amount,
		CreatedAt:  now.UTC(),
		Kind:       EntryKindTransfer,
	}, nil
}

// NewDepositEntry records funds added to receiver from outside the ledger.
func NewDepositEntry(id, receiverID string, amount Money, now time.Time) (*LedgerEntry, error) {
	if id == "" || receiverID == "" {
		return nil, ErrMissingArgument
	}

	if amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	return &LedgerEntry{
		ID:         id,
		ReceiverID: receiverID,
		Amount:     amount,
		CreatedAt:  now.UTC(),
		Kind:       EntryKindDeposit,
	}, nil
}

// Validate checks the shape invariants of an entry loaded from storage.
func (e *LedgerEntry) Validate() error {
	switch e.Kind {
	case EntryKindTransfer:
		if e.SenderID == nil || *e.SenderID == "" {
			return fmt.Errorf("%w: transfer %s has no sender", ErrMissingArgument, e.ID)
		}
		if *e.SenderID == e.ReceiverID {
			return ErrSelfTransfer
		}
	case EntryKindDeposit:
		if e.SenderID != nil {
			return fmt.Errorf("deposit %s must not have a sender", e.ID)
		}
	default:
		return fmt.Errorf("unknown entry kind %q", e.Kind)
	}

	return nil
}

// Sender returns the sender id or "" for deposits.
func (e *LedgerEntry) Sender() string {
	if e.SenderID == nil {
		return ""
	}
	return *e.SenderID
}

// Involves reports whether accountID is the sender or the receiver.
func (e *LedgerEntry) Involves(accountID string) bool {
	return e.ReceiverID == accountID || e.Sender() == accountID
}

// Direction returns sent, received or deposit from viewerID's point of view.
func (e *LedgerEntry) Direction(viewerID string) string {
	if e.Kind == EntryKindDeposit {
		return DirectionDeposit
	}
	if e.Sender() == viewerID {
		return DirectionSent
	}
	return DirectionReceived
}

// Counterparty returns the other account of a transfer, or "" for deposits.
func (e *LedgerEntry) Counterparty(viewerID string) string {
	switch e.Direction(viewerID) {
	case DirectionSent:
		return e.ReceiverID
	case DirectionReceived:
		return e.Sender()
	default:
		return ""
	}
}
