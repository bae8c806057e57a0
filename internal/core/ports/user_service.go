package ports

import (
	"context"
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// BanService toggles the banned flag of a user.
type BanService interface {
	SetBanned(ctx context.Context, uid string, banned bool) (*domain.UserRecord, error)
	// Apply maps an action of "ban" or "unban" onto SetBanned.
	Apply(ctx context.Context, uid, action string) error
}

// GrantResult is returned by a successful admin grant.
type GrantResult struct {
	Type      domain.AdminType
	ExpiresAt *time.Time // temporary grants only
}

// GrantService elevates a user to admin in exchange for a shared grant code.
type GrantService interface {
	GrantAdmin(ctx context.Context, uid, code string) (*GrantResult, error)
}

// AdminSummary is one entry of the admin listing.
type AdminSummary struct {
	UID       string
	Email     string
	Type      domain.AdminType
	ExpiresAt *time.Time
}

// UserService covers record creation and the operator listings.
type UserService interface {
	CreateUser(ctx context.Context, uid, email string) (bool, error)
	ListAdmins(ctx context.Context) ([]AdminSummary, error)
	ListUsers(ctx context.Context) ([]domain.UserRecord, error)
}

// SweepResult summarises one expiry sweep.
type SweepResult struct {
	Scanned int
	Expired int
	Demoted int64
}

// Sweeper demotes admins whose temporary grant has lapsed.
type Sweeper interface {
	Sweep(ctx context.Context) (SweepResult, error)
}
