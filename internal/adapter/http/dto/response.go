package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Success wraps data in the success envelope.
func Success(data any) SuccessResponse {
	return SuccessResponse{Status: StatusSuccess, Data: data}
}

// Error builds the error envelope.
func Error(message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: message}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccountID string    `json:"accountId"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountResponse describes the caller's account.
type AccountResponse struct {
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account, role domain.Role) *AccountResponse {
	return &AccountResponse{
		AccountID: a.ID,
		Name:      a.Name,
		Phone:     a.Phone,
		Role:      string(role),
		CreatedAt: a.CreatedAt,
	}
}

// SendMoneyResponse is returned by /wallet/send.
type SendMoneyResponse struct {
	TransactionID  string       `json:"transactionId"`
	Amount         domain.Money `json:"amount"`
	Currency       string       `json:"currency"`
	RecipientPhone string       `json:"recipientPhone"`
	NewBalance     domain.Money `json:"newBalance"`
}

// SendMoneyFromResult converts a transfer result to a response.
func SendMoneyFromResult(r *usecase.TransferResult, currency string) *SendMoneyResponse {
	return &SendMoneyResponse{
		TransactionID:  r.Entry.ID,
		Amount:         r.Entry.Amount,
		Currency:       currency,
		RecipientPhone: r.RecipientPhone,
		NewBalance:     r.SenderBalance,
	}
}

// DepositResponse is returned by /wallet/deposit.
type DepositResponse struct {
	TransactionID string       `json:"transactionId"`
	Amount        domain.Money `json:"amount"`
	Currency      string       `json:"currency"`
	NewBalance    domain.Money `json:"newBalance"`
}

// DepositFromResult converts a deposit result to a response.
func DepositFromResult(r *usecase.DepositResult, currency string) *DepositResponse {
	return &DepositResponse{
		TransactionID: r.Entry.ID,
		Amount:        r.Entry.Amount,
		Currency:      currency,
		NewBalance:    r.Balance,
	}
}

// BalanceResponse is returned by /wallet/balance.
type BalanceResponse struct {
	Amount   domain.Money `json:"amount"`
	Currency string       `json:"currency"`
}

// TransactionResponse is one ledger entry from the viewer's point of view.
type TransactionResponse struct {
	TransactionID  string       `json:"transactionId"`
	Amount         domain.Money `json:"amount"`
	Currency       string       `json:"currency"`
	Type           string       `json:"type"`
	Direction      string       `json:"direction"`
	CounterpartyID string       `json:"counterpartyId,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}

// TransactionFromDomain converts an entry as seen by viewerID.
func TransactionFromDomain(e *domain.LedgerEntry, viewerID, currency string) *TransactionResponse {
	return &TransactionResponse{
		TransactionID:  e.ID,
		Amount:         e.Amount,
		Currency:       currency,
		Type:           string(e.Kind),
		Direction:      e.Direction(viewerID),
		CounterpartyID: e.Counterparty(viewerID),
		Timestamp:      e.CreatedAt,
	}
}

// TransactionHistoryResponse is one page of history.
type TransactionHistoryResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Page         int                    `json:"page"`
	Size         int                    `json:"size"`
	TotalCount   int64                  `json:"totalCount"`
}

// TransactionHistoryFromPage converts a page of entries as seen by viewerID.
func TransactionHistoryFromPage(p *usecase.TransactionPage, viewerID, currency string) *TransactionHistoryResponse {
	items := make([]*TransactionResponse, len(p.Entries))
	for i, e := range p.Entries {
		items[i] = TransactionFromDomain(e, viewerID, currency)
	}

	return &TransactionHistoryResponse{
		Transactions: items,
		Page:         p.Page,
		Size:         p.Size,
		TotalCount:   p.Total,
	}
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	TransactionID string     `json:"transactionId,omitempty"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// NotificationFromDomain converts a domain notification to a response.
func NotificationFromDomain(n *domain.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:            n.ID,
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		TransactionID: n.EntryID,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

// NotificationsFromDomain converts domain notifications to responses.
func NotificationsFromDomain(ns []*domain.Notification) []*NotificationResponse {
	result := make([]*NotificationResponse, len(ns))
	for i, n := range ns {
		result[i] = NotificationFromDomain(n)
	}
	return result
}

// CountResponse carries a single counter.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ConsistencyResponse is the ledger-wide balance check.
type ConsistencyResponse struct {
	TotalBalances decimal.Decimal `json:"totalBalances"`
	TotalDeposits decimal.Decimal `json:"totalDeposits"`
	Difference    decimal.Decimal `json:"difference"`
	Consistent    bool            `json:"consistent"`
	CheckedAt     time.Time       `json:"checkedAt"`
}

// ConsistencyFromReport converts a consistency report.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		TotalBalances: r.TotalBalances,
		TotalDeposits: r.TotalDeposits,
		Difference:    r.Difference,
		Consistent:    r.Consistent,
		CheckedAt:     r.CheckedAt,
	}
}

// ReconciliationResponse compares one stored balance with its ledger history.
type ReconciliationResponse struct {
	AccountID         string          `json:"accountId"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
	Reconciled        bool            `json:"reconciled"`
	CheckedAt         time.Time       `json:"checkedAt"`
}

// ReconciliationFromResult converts a reconciliation result.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		Reconciled:        r.IsReconciled,
		CheckedAt:         r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"totalAccounts"`
	ReconciledAccounts int                       `json:"reconciledAccounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	Consistency        *ConsistencyResponse      `json:"consistency,omitempty"`
	LedgerConsistent   bool                      `json:"ledgerConsistent"`
	CheckedAt          time.Time                 `json:"checkedAt"`
}

// ReconciliationReportFromDomain converts a reconciliation report.
func ReconciliationReportFromDomain(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromResult(d)
	}

	resp := &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		LedgerConsistent:   r.LedgerConsistent,
		CheckedAt:          r.CheckedAt,
	}
	if r.Consistency != nil {
		resp.Consistency = ConsistencyFromReport(r.Consistency)
	}

	return resp
}

// AuditLogResponse represents an audit record in API responses.
type AuditLogResponse struct {
	ID         string      `json:"id"`
	ActorID    string      `json:"actorId,omitempty"`
	Action     string      `json:"action"`
	EntityType string      `json:"entityType"`
	EntityID   string      `json:"entityId,omitempty"`
	Details    domain.JSON `json:"details,omitempty"`
	IPAddress  string      `json:"ipAddress,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
	Status     string      `json:"status"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// AuditLogsFromDomain converts audit records to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:         l.ID,
			ActorID:    l.ActorID,
			Action:     string(l.Action),
			EntityType: string(l.EntityType),
			EntityID:   l.EntityID,
			Details:    l.Details,
			IPAddress:  l.IPAddress,
			RequestID:  l.RequestID,
			Status:     string(l.Status),
			Error:      l.Error,
			CreatedAt:  l.CreatedAt,
		}
	}
	return result
}
