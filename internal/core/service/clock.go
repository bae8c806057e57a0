package service

import (
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

type nopAuditRecorder struct{}

func (nopAuditRecorder) Record(domain.AuditEntry) {}

func auditOrNop(r ports.AuditRecorder) ports.AuditRecorder {
	if r == nil {
		return nopAuditRecorder{}
	}
	return r
}
