package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/metrics"
)

// DefaultTemporaryTTL is how long a temporary admin grant lasts.
const DefaultTemporaryTTL = 10 * 24 * time.Hour

// GrantCodes holds the two shared secrets accepted by GrantAdmin.
type GrantCodes struct {
	Permanent string
	Temporary string
	// TemporaryTTL defaults to DefaultTemporaryTTL when zero.
	TemporaryTTL time.Duration
}

// GrantService turns a valid grant code into an admin flag on the record.
type GrantService struct {
	repo  ports.UserRepository
	codes GrantCodes
	audit ports.AuditRecorder
	now   Clock
	log   zerolog.Logger
}

func NewGrantService(repo ports.UserRepository, codes GrantCodes, audit ports.AuditRecorder, log zerolog.Logger) *GrantService {
	if codes.TemporaryTTL <= 0 {
		codes.TemporaryTTL = DefaultTemporaryTTL
	}
	return &GrantService{repo: repo, codes: codes, audit: auditOrNop(audit), now: utcNow, log: log}
}

// WithClock replaces the time source. Intended for tests.
func (s *GrantService) WithClock(now Clock) *GrantService {
	s.now = now
	return s
}

// GrantAdmin validates code and applies the matching grant to uid. An
// unknown code leaves the record untouched.
func (s *GrantService) GrantAdmin(ctx context.Context, uid, code string) (*ports.GrantResult, error) {
	if uid == "" || code == "" {
		return nil, domain.NewValidationError("Missing uid or code")
	}

	var (
		state  *domain.AdminState
		result ports.GrantResult
		action domain.AuditAction
	)
	switch {
	case matches(code, s.codes.Permanent):
		state = domain.PermanentAdmin()
		result.Type = domain.AdminPermanent
		action = domain.AuditGrantPermanent
	case matches(code, s.codes.Temporary):
		state = domain.TemporaryAdmin(s.now().Add(s.codes.TemporaryTTL))
		result.Type = domain.AdminTemporary
		result.ExpiresAt = state.ExpiresAt
		action = domain.AuditGrantTemporary
	default:
		metrics.GrantsTotal.WithLabelValues("invalid").Inc()
		s.log.Warn().Str("uid", uid).Msg("admin grant rejected: invalid code")
		return nil, domain.ErrInvalidCode
	}

	if _, err := s.repo.Upsert(ctx, uid, domain.UserPatch{Admin: state}); err != nil {
		return nil, fmt.Errorf("grant admin: %w", err)
	}

	s.audit.Record(domain.AuditEntry{UID: uid, Action: action, ExpiresAt: result.ExpiresAt, At: s.now()})
	metrics.GrantsTotal.WithLabelValues(string(result.Type)).Inc()

	evt := s.log.Info().Str("uid", uid).Str("type", string(result.Type))
	if result.ExpiresAt != nil {
		evt = evt.Time("expires_at", *result.ExpiresAt)
	}
	evt.Msg("admin granted")

	return &result, nil
}

// matches compares a supplied code to a configured one in constant time. An
// unset configured code never matches.
func matches(supplied, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(configured)) == 1
}
