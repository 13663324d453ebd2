package domain

import (
	"fmt"
	"time"
)

// Account is the mutable balance record owned by one user.
// Its ID doubles as the owning user's ID.
type Account struct {
	ID        string
	Name      string
	Phone     string
	PinHash   string
	Balance   Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount opens an account with a zero balance.
func NewAccount(id, name, phone, pinHash string, now time.Time) *Account {
	return &Account{
		ID:        id,
		Name:      name,
		Phone:     phone,
		PinHash:   pinHash,
		Balance:   Zero(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasSufficientBalance reports whether amount can be debited.
func (a *Account) HasSufficientBalance(amount Money) bool {
	return a.Balance.IsGreaterThanOrEqual(amount)
}

// Debit removes amount from the balance.
func (a *Account) Debit(amount Money, now time.Time) error {
	if !a.HasSufficientBalance(amount) {
		return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientFunds, amount, a.Balance)
	}

	balance, err := a.Balance.Sub(amount)
	if err != nil {
		return err
	}

	a.Balance = balance
	a.UpdatedAt = now
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount Money, now time.Time) {
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = now
}

// Clone returns a copy that can be mutated without affecting a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
