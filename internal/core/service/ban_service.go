package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/metrics"
)

const (
	ActionBan   = "ban"
	ActionUnban = "unban"
)

// BanService records ban intent on the user record. Disabling the identity
// at the sign-in provider is left to that provider.
type BanService struct {
	repo  ports.UserRepository
	audit ports.AuditRecorder
	now   Clock
	log   zerolog.Logger
}

func NewBanService(repo ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) *BanService {
	return &BanService{repo: repo, audit: auditOrNop(audit), now: utcNow, log: log}
}

// SetBanned upserts the banned flag for uid, creating the record if needed.
func (s *BanService) SetBanned(ctx context.Context, uid string, banned bool) (*domain.UserRecord, error) {
	if uid == "" {
		return nil, domain.NewValidationError("Missing uid")
	}

	rec, err := s.repo.Upsert(ctx, uid, domain.UserPatch{Banned: &banned})
	if err != nil {
		return nil, fmt.Errorf("set banned: %w", err)
	}

	action := domain.AuditUnban
	if banned {
		action = domain.AuditBan
	}
	s.audit.Record(domain.AuditEntry{UID: uid, Action: action, At: s.now()})
	metrics.BansTotal.WithLabelValues(string(action)).Inc()

	s.log.Info().Str("uid", uid).Bool("banned", banned).Msg("ban flag updated")
	return rec, nil
}

// Apply translates a ban/unban action into SetBanned.
func (s *BanService) Apply(ctx context.Context, uid, action string) error {
	if uid == "" || action == "" {
		return domain.NewValidationError("Missing uid or action")
	}

	var banned bool
	switch action {
	case ActionBan:
		banned = true
	case ActionUnban:
		banned = false
	default:
		return domain.ErrUnknownAction
	}

	_, err := s.SetBanned(ctx, uid, banned)
	return err
}
