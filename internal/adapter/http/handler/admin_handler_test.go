package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s *ledgerServiceStub) CheckConsistency(context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

type reconciliationServiceStub struct {
	result *usecase.ReconciliationResult
	report *usecase.ReconciliationReport
	err    error
}

func (s *reconciliationServiceStub) ReconcileAccount(_ context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.result.AccountID = accountID
	return s.result, nil
}

func (s *reconciliationServiceStub) GenerateReconciliationReport(context.Context) (*usecase.ReconciliationReport, error) {
	return s.report, s.err
}

type auditServiceStub struct {
	filter domain.AuditFilter
}

func (s *auditServiceStub) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	s.filter = filter
	return []*domain.AuditLog{}, nil
}

func TestAdminHandler_Consistency(t *testing.T) {
	tests := []struct {
		name       string
		stub       *ledgerServiceStub
		wantStatus int
		consistent bool
	}{
		{
			name:       "consistent",
			stub:       &ledgerServiceStub{report: &usecase.ConsistencyReport{TotalBalances: decimal.NewFromInt(100), TotalDeposits: decimal.NewFromInt(100), Consistent: true}},
			wantStatus: http.StatusOK,
			consistent: true,
		},
		{
			name: "mismatch is reported, not failed",
			stub: &ledgerServiceStub{
				report: &usecase.ConsistencyReport{TotalBalances: decimal.NewFromInt(90), TotalDeposits: decimal.NewFromInt(100), Difference: decimal.NewFromInt(-10)},
				err:    usecase.ErrInconsistentLedger,
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "storage failure",
			stub:       &ledgerServiceStub{err: domain.NewInfrastructureError("sum balances", errors.New("down"))},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAdminHandler(tt.stub, &reconciliationServiceStub{}, &auditServiceStub{})

			rec := httptest.NewRecorder()
			h.Consistency(rec, httptest.NewRequest(http.MethodGet, "/admin/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp dto.ConsistencyResponse
			decodeEnvelope(t, rec, &resp)
			if resp.Consistent != tt.consistent {
				t.Fatalf("expected consistent=%v, got %+v", tt.consistent, resp)
			}
		})
	}
}

func TestAdminHandler_Reconciliation(t *testing.T) {
	h := NewAdminHandler(&ledgerServiceStub{}, &reconciliationServiceStub{
		report: &usecase.ReconciliationReport{TotalAccounts: 2, ReconciledAccounts: 2, LedgerConsistent: true},
	}, &auditServiceStub{})

	rec := httptest.NewRecorder()
	h.Reconciliation(rec, httptest.NewRequest(http.MethodGet, "/admin/reconciliation", nil))

	var resp dto.ReconciliationReportResponse
	decodeEnvelope(t, rec, &resp)
	if resp.TotalAccounts != 2 || !resp.LedgerConsistent || resp.Discrepancies == nil {
		t.Fatalf("unexpected report %+v", resp)
	}
}

func TestAdminHandler_AuditLogs(t *testing.T) {
	audit := &auditServiceStub{}
	h := NewAdminHandler(&ledgerServiceStub{}, &reconciliationServiceStub{}, audit)

	rec := httptest.NewRecorder()
	h.AuditLogs(rec, httptest.NewRequest(http.MethodGet,
		"/admin/audit-logs?actor=acc-1&action=MONEY_TRANSFERRED&from=2024-01-01T00:00:00Z&limit=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if audit.filter.ActorID != "acc-1" || audit.filter.Action != "MONEY_TRANSFERRED" || audit.filter.Limit != 10 {
		t.Fatalf("unexpected filter %+v", audit.filter)
	}
	if audit.filter.StartDate == nil || audit.filter.EndDate != nil {
		t.Fatalf("unexpected date range %+v", audit.filter)
	}

	rec = httptest.NewRecorder()
	h.AuditLogs(rec, httptest.NewRequest(http.MethodGet, "/admin/audit-logs?to=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad timestamp, got %d", rec.Code)
	}
}
