package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// CreateUser creates the record for uid on first login. Calling it again for
// the same uid changes nothing.
func (s *UserService) CreateUser(ctx context.Context, uid, email string) (bool, error) {
	if uid == "" {
		return false, domain.NewValidationError("Missing uid")
	}

	created, err := s.repo.Create(ctx, uid, email)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	if created {
		s.log.Info().Str("uid", uid).Msg("user record created")
	}
	return created, nil
}

// ListAdmins returns every admin with its grant type derived from the expiry
// alone, regardless of whether a lapsed grant has been swept yet.
func (s *UserService) ListAdmins(ctx context.Context) ([]ports.AdminSummary, error) {
	recs, err := s.repo.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	out := make([]ports.AdminSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, ports.AdminSummary{
			UID:       r.UID,
			Email:     r.Email,
			Type:      r.AdminType(),
			ExpiresAt: r.AdminExpiresAt,
		})
	}
	return out, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserRecord, error) {
	recs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return recs, nil
}
