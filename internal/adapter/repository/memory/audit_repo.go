package memory

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
)

// AuditRepository implements usecase.AuditRepository. Writes are immediate
// and independent of any transaction.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Create appends an audit log.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	l := *log
	r.store.mu.Lock()
	r.store.auditLogs = append(r.store.auditLogs, &l)
	r.store.mu.Unlock()
	return nil
}

// List returns logs matching filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	var matched []*domain.AuditLog
	for i := len(r.store.auditLogs) - 1; i >= 0; i-- {
		l := r.store.auditLogs[i]
		if matchesAudit(l, filter) {
			c := *l
			matched = append(matched, &c)
		}
	}
	r.store.mu.RUnlock()

	return page(matched, filter.Limit, filter.Offset), nil
}

func matchesAudit(l *domain.AuditLog, f domain.AuditFilter) bool {
	switch {
	case f.ActorID != "" && l.ActorID != f.ActorID:
		return false
	case f.Action != "" && l.Action != f.Action:
		return false
	case f.EntityType != "" && l.EntityType != f.EntityType:
		return false
	case f.EntityID != "" && l.EntityID != f.EntityID:
		return false
	case f.StartDate != nil && l.CreatedAt.Before(*f.StartDate):
		return false
	case f.EndDate != nil && l.CreatedAt.After(*f.EndDate):
		return false
	}
	return true
}
