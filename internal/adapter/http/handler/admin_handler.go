package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// AdminHandler serves operator endpoints.
type AdminHandler struct {
	ledger         ledgerService
	reconciliation reconciliationService
	audit          auditService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger ledgerService, reconciliation reconciliationService, audit auditService) *AdminHandler {
	return &AdminHandler{ledger: ledger, reconciliation: reconciliation, audit: audit}
}

// Consistency checks that stored balances add up to all deposits.
// An inconsistent ledger is still a successful check.
func (h *AdminHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.CheckConsistency(r.Context())
	if err != nil && !(errors.Is(err, usecase.ErrInconsistentLedger) && report != nil) {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ConsistencyFromReport(report))
}

// ReconcileAccount compares one account's balance with its ledger history.
func (h *AdminHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliation.ReconcileAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// Reconciliation reconciles every account.
func (h *AdminHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliation.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ReconciliationReportFromDomain(report))
}

// AuditLogs lists audit records. Filters: actor, action, entityType,
// entityId, from, to (RFC 3339), limit, offset.
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		ActorID:    q.Get("actor"),
		Action:     domain.AuditAction(q.Get("action")),
		EntityType: domain.AuditEntity(q.Get("entityType")),
		EntityID:   q.Get("entityId"),
		Limit:      parseIntQuery(r, "limit", 100),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	for key, dst := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+key+" timestamp, expected RFC 3339")
			return
		}
		*dst = &t
	}

	logs, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
