package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation errors
	ErrMissingArgument = errors.New("required argument is missing")
	ErrSelfTransfer    = errors.New("cannot transfer to the same account")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidPin      = errors.New("invalid pin")

	// Business errors
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAccountNotFound      = errors.New("account not found")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrEntryNotFound        = errors.New("transaction not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPhoneTaken           = errors.New("phone number already registered")
	ErrInvalidCredentials   = errors.New("invalid phone number or pin")

	// Infrastructure errors
	ErrLockTimeout = errors.New("timed out waiting for account lock")
)

// InfrastructureError wraps a storage or transport failure. The operation made no
// state change and can be retried from the start.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Retryable is always true; the commit boundary guarantees no partial effect.
func (e *InfrastructureError) Retryable() bool {
	return true
}

// NewInfrastructureError wraps err unless it is nil or already classified.
func NewInfrastructureError(op string, err error) error {
	if err == nil {
		return nil
	}

	var infra *InfrastructureError
	if errors.As(err, &infra) || IsBusiness(err) || IsValidation(err) || errors.Is(err, ErrLockTimeout) {
		return err
	}

	return &InfrastructureError{Op: op, Err: err}
}

// IsValidation reports whether err was rejected before any lock was taken.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrSelfTransfer) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPhone) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidPin)
}

// IsBusiness reports whether err is an expected, named business outcome.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrRecipientNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrPhoneTaken) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsRetryable reports whether the caller may safely retry the whole operation.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrLockTimeout) {
		return true
	}

	var infra *InfrastructureError
	return errors.As(err, &infra) && infra.Retryable()
}

// ErrorKind names the class of err for logs, metrics and audit records.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsValidation(err):
		return "validation"
	case IsBusiness(err):
		return "business"
	case IsRetryable(err):
		return "infrastructure"
	default:
		return "internal"
	}
}
