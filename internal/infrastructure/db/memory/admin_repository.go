package memory

import (
	"context"
	"sync"

	"github.com/99minutos/user-admin/internal/core/domain"
)

type AdminRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.AdminAccount
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{accounts: make(map[string]domain.AdminAccount)}
}

func (r *AdminRepository) FindByUsername(_ context.Context, username string) (*domain.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &a, nil
}

func (r *AdminRepository) Save(_ context.Context, account *domain.AdminAccount) (*domain.AdminAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := *account
	if prev, ok := r.accounts[a.Username]; ok {
		a.ID = prev.ID
		a.CreatedAt = prev.CreatedAt
	}
	if a.ID == "" {
		a.ID = a.Username
	}
	r.accounts[a.Username] = a
	return &a, nil
}
