package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// UserRepository persists one UserRecord per uid. Each call is a single
// document/row operation; no transaction spans more than one call.
type UserRepository interface {
	// Get returns domain.ErrUserNotFound when no record exists for uid.
	Get(ctx context.Context, uid string) (*domain.UserRecord, error)
	// Upsert creates the record with defaults when absent, then merges the
	// non-nil fields of patch. createdAt is only ever written on insert.
	Upsert(ctx context.Context, uid string, patch domain.UserPatch) (*domain.UserRecord, error)
	// Create inserts a default record. It is a no-op for an existing uid and
	// reports whether a record was actually created.
	Create(ctx context.Context, uid, email string) (bool, error)
	// ListAdmins returns every record with isAdmin = true.
	ListAdmins(ctx context.Context) ([]domain.UserRecord, error)
	// ListAll returns every record.
	ListAll(ctx context.Context) ([]domain.UserRecord, error)
	// DemoteAdmins clears isAdmin and adminExpiresAt for all uids in one
	// batched write and returns the number of records modified.
	DemoteAdmins(ctx context.Context, uids []string) (int64, error)
}
