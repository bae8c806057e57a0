package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// AuditRepository appends entries to the audit log.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}

// AuditRecorder accepts audit entries from services. Implementations must
// not block the caller on persistence.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
