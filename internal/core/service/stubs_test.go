package service

import (
	"context"
	"errors"
	"sync"

	"github.com/99minutos/user-admin/internal/core/domain"
)

var errStore = errors.New("connection refused")

// failingUserRepo fails every call with errStore.
type failingUserRepo struct{}

func (failingUserRepo) Get(context.Context, string) (*domain.UserRecord, error) { return nil, errStore }
func (failingUserRepo) Upsert(context.Context, string, domain.UserPatch) (*domain.UserRecord, error) {
	return nil, errStore
}
func (failingUserRepo) Create(context.Context, string, string) (bool, error) { return false, errStore }
func (failingUserRepo) ListAdmins(context.Context) ([]domain.UserRecord, error) { return nil, errStore }
func (failingUserRepo) ListAll(context.Context) ([]domain.UserRecord, error) { return nil, errStore }
func (failingUserRepo) DemoteAdmins(context.Context, []string) (int64, error) { return 0, errStore }

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *recordingAudit) Record(e domain.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingAudit) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}
