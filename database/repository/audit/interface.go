package auditRepo

import (
	"context"

	"mentorhub/models"
)

// AuditRepository persists the append-only audit log.
type AuditRepository interface {
	Insert(ctx context.Context, record *models.AuditRecord) error
	ListByResource(ctx context.Context, resource string, limit int64) ([]models.AuditRecord, error)
}
