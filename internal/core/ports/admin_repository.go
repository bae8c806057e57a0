package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// AdminRepository stores operator accounts used by the admin login.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.AdminAccount, error)
	// Save inserts the account or replaces the password hash and uid of an
	// existing account with the same username.
	Save(ctx context.Context, account *domain.AdminAccount) (*domain.AdminAccount, error)
}
