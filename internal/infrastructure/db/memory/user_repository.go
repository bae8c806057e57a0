// Package memory provides an in-process UserRepository. It backs the
// "memory" store for local runs and is used by tests across packages.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.UserRecord
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*domain.UserRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) Get(_ context.Context, uid string) (*domain.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) Upsert(_ context.Context, uid string, patch domain.UserPatch) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[uid]
	if !ok {
		u = domain.NewUserRecord(uid, "", r.now())
		r.users[uid] = u
	}
	u.Apply(patch)
	return clone(u), nil
}

func (r *UserRepository) Create(_ context.Context, uid, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[uid]; ok {
		return false, nil
	}
	r.users[uid] = domain.NewUserRecord(uid, email, r.now())
	return true, nil
}

func (r *UserRepository) ListAdmins(_ context.Context) ([]domain.UserRecord, error) {
	return r.list(func(u *domain.UserRecord) bool { return u.IsAdmin }), nil
}

func (r *UserRepository) ListAll(_ context.Context) ([]domain.UserRecord, error) {
	return r.list(func(*domain.UserRecord) bool { return true }), nil
}

func (r *UserRepository) DemoteAdmins(_ context.Context, uids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, uid := range uids {
		u, ok := r.users[uid]
		if !ok || !u.IsAdmin {
			continue
		}
		u.Apply(domain.UserPatch{Admin: domain.NoAdmin()})
		n++
	}
	return n, nil
}

// list returns matching records ordered by uid so callers see a stable order.
func (r *UserRepository) list(keep func(*domain.UserRecord) bool) []domain.UserRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.UserRecord, 0, len(r.users))
	for _, u := range r.users {
		if keep(u) {
			out = append(out, *clone(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

func clone(u *domain.UserRecord) *domain.UserRecord {
	c := *u
	if u.AdminExpiresAt != nil {
		t := *u.AdminExpiresAt
		c.AdminExpiresAt = &t
	}
	return &c
}
