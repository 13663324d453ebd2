package usecase

import (
	"context"
	"time"

	"github.com/iho/gowallet/internal/domain"
)

// RequestMeta describes where a call came from.
type RequestMeta struct {
	SourceAddress string
	RequestID     string
}

// AuditEntry is one audit event as reported by a use case.
type AuditEntry struct {
	Meta       RequestMeta
	Details    domain.JSON
	Err        error
	ActorID    string
	Action     domain.AuditAction
	EntityType domain.AuditEntity
	EntityID   string
}

// AuditUseCase persists audit records outside of any financial transaction.
type AuditUseCase struct {
	auditRepo AuditRepository
	idGen     IDGenerator
	now       func() time.Time
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository, idGen IDGenerator) *AuditUseCase {
	return &AuditUseCase{
		auditRepo: auditRepo,
		idGen:     idGen,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record implements AuditRecorder.
func (uc *AuditUseCase) Record(ctx context.Context, entry AuditEntry) error {
	log := &domain.AuditLog{
		ID:         uc.idGen.Generate(),
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		IPAddress:  entry.Meta.SourceAddress,
		RequestID:  entry.Meta.RequestID,
		Status:     domain.AuditStatusFor(entry.Err),
		CreatedAt:  uc.now(),
	}

	if entry.Err != nil {
		log.Error = entry.Err.Error()
	}

	return uc.auditRepo.Create(ctx, log)
}

// List returns audit logs matching filter, newest first.
func (uc *AuditUseCase) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	filter.Offset = domain.ClampOffset(filter.Offset)

	return uc.auditRepo.List(ctx, filter)
}
