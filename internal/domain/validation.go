package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MinNameLength   = 1
	MaxNameLength   = 100
	MinPhoneDigits  = 7
	MaxPhoneDigits  = 15
	MinPinLength    = 4
	MaxPinLength    = 6
	MaxTransferSize = "1000000000"
)

var (
	phoneRegex   = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	pinRegex     = regexp.MustCompile(`^\d+$`)
	phoneReplace = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// ValidateTransfer applies the transfer rules in order: missing arguments,
// self-transfer, zero amount, insufficient funds. It has no side effects.
func ValidateTransfer(senderID, receiverID string, amount, senderBalance *Money) error {
	if senderID == "" || receiverID == "" || amount == nil || senderBalance == nil {
		return ErrMissingArgument
	}

	if senderID == receiverID {
		return ErrSelfTransfer
	}

	if amount.IsZero() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	if err := validateUpperBound(*amount); err != nil {
		return err
	}

	if !senderBalance.IsGreaterThanOrEqual(*amount) {
		return fmt.Errorf("%w: cannot transfer %s", ErrInsufficientFunds, amount)
	}

	return nil
}

// ValidateTransferRequest runs the checks that need no balance.
// It is safe to call before any lock is taken.
func ValidateTransferRequest(senderID, receiverID string, amount *Money) error {
	balance := Zero()
	if amount != nil {
		balance = *amount
	}
	return ValidateTransfer(senderID, receiverID, amount, &balance)
}

// ValidateDeposit checks a deposit request.
func ValidateDeposit(accountID string, amount *Money) error {
	if accountID == "" || amount == nil {
		return ErrMissingArgument
	}

	if amount.IsZero() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	return validateUpperBound(*amount)
}

func validateUpperBound(amount Money) error {
	if amount.IsGreaterThan(MustMoney(MaxTransferSize)) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransferSize)
	}
	return nil
}

// NormalizePhone strips formatting characters and validates the result.
func NormalizePhone(phone string) (string, error) {
	normalized := phoneReplace.Replace(strings.TrimSpace(phone))
	if normalized == "" {
		return "", fmt.Errorf("%w: phone number is required", ErrInvalidPhone)
	}

	if !phoneRegex.MatchString(normalized) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPhone, phone)
	}

	digits := len(strings.TrimPrefix(normalized, "+"))
	if digits < MinPhoneDigits || digits > MaxPhoneDigits {
		return "", fmt.Errorf("%w: must have %d to %d digits", ErrInvalidPhone, MinPhoneDigits, MaxPhoneDigits)
	}

	return normalized, nil
}

// ValidateName validates a display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)

	if n < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if n > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidatePin validates a raw numeric pin.
func ValidatePin(pin string) error {
	if len(pin) < MinPinLength || len(pin) > MaxPinLength || !pinRegex.MatchString(pin) {
		return fmt.Errorf("%w: must be %d to %d digits", ErrInvalidPin, MinPinLength, MaxPinLength)
	}
	return nil
}

// MaxOffset is the largest row offset storage accepts.
const MaxOffset = math.MaxInt32

// ValidatePagination clamps page and size to sane bounds. page*size never
// exceeds MaxOffset.
func ValidatePagination(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}

	if size <= 0 {
		size = 20
	}

	if size > 100 {
		size = 100
	}

	if maxPage := MaxOffset / size; page > maxPage {
		page = maxPage
	}

	return page, size
}

// ClampOffset bounds a raw row offset to [0, MaxOffset].
func ClampOffset(offset int) int {
	switch {
	case offset < 0:
		return 0
	case offset > MaxOffset:
		return MaxOffset
	default:
		return offset
	}
}
