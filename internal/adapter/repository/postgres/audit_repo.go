package postgres

import (
	"context"
	"encoding/json"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
)

// AuditRepository implements usecase.AuditRepository. It writes through the
// pool directly so records survive the rollback of the operation they describe.
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	var details []byte
	if log.Details != nil {
		var err error
		details, err = json.Marshal(log.Details)
		if err != nil {
			return err
		}
	}

	return r.queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:         log.ID,
		ActorID:    log.ActorID,
		Action:     string(log.Action),
		EntityType: string(log.EntityType),
		EntityID:   log.EntityID,
		Details:    details,
		IpAddress:  log.IPAddress,
		RequestID:  log.RequestID,
		Status:     string(log.Status),
		Error:      log.Error,
		CreatedAt:  timeToPgTimestamptz(log.CreatedAt),
	})
}

// List retrieves audit logs with filtering
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	rows, err := r.queries.ListAuditLogs(ctx, generated.ListAuditLogsParams{
		ActorID:    filter.ActorID,
		Action:     string(filter.Action),
		EntityType: string(filter.EntityType),
		EntityID:   filter.EntityID,
		StartDate:  optionalTimestamptz(filter.StartDate),
		EndDate:    optionalTimestamptz(filter.EndDate),
		RowLimit:   int32(filter.Limit),
		RowOffset:  int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		log := &domain.AuditLog{
			ID:         row.ID,
			ActorID:    row.ActorID,
			Action:     domain.AuditAction(row.Action),
			EntityType: domain.AuditEntity(row.EntityType),
			EntityID:   row.EntityID,
			IPAddress:  row.IpAddress,
			RequestID:  row.RequestID,
			Status:     domain.AuditStatus(row.Status),
			Error:      row.Error,
			CreatedAt:  row.CreatedAt.Time,
		}

		if len(row.Details) > 0 {
			if err := json.Unmarshal(row.Details, &log.Details); err != nil {
				return nil, err
			}
		}

		logs = append(logs, log)
	}

	return logs, nil
}
