package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one audit trail record. It is written outside the financial
// unit of work it describes.
type AuditLog struct {
	ID         string
	ActorID    string
	Action     AuditAction
	EntityType AuditEntity
	EntityID   string
	Details    JSON
	IPAddress  string
	RequestID  string
	Status     AuditStatus
	Error      string
	CreatedAt  time.Time
}

// JSON is free-form audit detail.
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionUserRegistered           AuditAction = "USER_REGISTERED"
	AuditActionUserLogin                AuditAction = "USER_LOGIN"
	AuditActionUserLogout               AuditAction = "USER_LOGOUT"
	AuditActionBalanceChecked           AuditAction = "BALANCE_CHECKED"
	AuditActionMoneyTransferred         AuditAction = "MONEY_TRANSFERRED"
	AuditActionFundsAdded               AuditAction = "FUNDS_ADDED"
	AuditActionTransactionViewed        AuditAction = "TRANSACTION_VIEWED"
	AuditActionTransactionHistoryViewed AuditAction = "TRANSACTION_HISTORY_VIEWED"
	AuditActionSystemError              AuditAction = "SYSTEM_ERROR"
	AuditActionConfigurationChanged     AuditAction = "CONFIGURATION_CHANGED"
)

// AuditEntity is the kind of thing an audit record is about.
type AuditEntity string

const (
	AuditEntityUser           AuditEntity = "USER"
	AuditEntityTransaction    AuditEntity = "TRANSACTION"
	AuditEntityWallet         AuditEntity = "WALLET"
	AuditEntityAuthentication AuditEntity = "AUTHENTICATION"
	AuditEntitySystem         AuditEntity = "SYSTEM"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// AuditStatusFor maps an operation error to an audit status.
func AuditStatusFor(err error) AuditStatus {
	switch {
	case err == nil:
		return AuditStatusSuccess
	case IsValidation(err) || IsBusiness(err):
		return AuditStatusFailure
	default:
		return AuditStatusError
	}
}

// MarshalState converts a value to JSON detail for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID    string
	Action     AuditAction
	EntityType AuditEntity
	EntityID   string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}
