package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every Money value carries.
const MoneyScale = 2

// Money is an exact, non-negative amount scaled to two fractional digits.
// The zero value is a valid zero amount.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds d half-up to two decimals. Negative input is rejected
// before rounding, so -0.004 fails rather than becoming 0.00.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d.String())
	}

	return Money{amount: d.Round(MoneyScale)}, nil
}

// MoneyFromString parses a decimal string into Money.
func MoneyFromString(s string) (Money, error) {
	if s == "" {
		return Money{}, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	return NewMoney(d)
}

// MustMoney is NewMoney for literals known to be valid. It panics otherwise.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other. It fails instead of going below zero.
func (m Money) Sub(other Money) (Money, error) {
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s minus %s is negative", ErrInvalidAmount, m, other)
	}

	return Money{amount: result}, nil
}

// IsGreaterThan reports whether m > other.
func (m Money) IsGreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// IsGreaterThanOrEqual reports whether m >= other.
func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// IsZero reports whether m is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares scaled values.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal returns the underlying value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// InexactFloat64 is for metrics only.
func (m Money) InexactFloat64() float64 {
	return m.amount.InexactFloat64()
}

// String formats m with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// MarshalJSON encodes m as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, err.Error())
	}

	parsed, err := NewMoney(d)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}
