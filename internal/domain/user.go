package domain

import "errors"

// Principal is the authenticated caller resolved from a token.
type Principal struct {
	AccountID string
	Phone     string
	Role      Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleCustomer owns one wallet and may only act on it
	RoleCustomer Role = "customer"

	// RoleAdmin may run ledger checks and read audit logs
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// CanOperate checks if the role may run operator endpoints
func (r Role) CanOperate() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
