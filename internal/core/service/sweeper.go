package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/metrics"
)

// ExpirySweeper demotes admins whose temporary grant has lapsed.
type ExpirySweeper struct {
	repo  ports.UserRepository
	audit ports.AuditRecorder
	now   Clock
	log   zerolog.Logger
}

func NewExpirySweeper(repo ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) *ExpirySweeper {
	return &ExpirySweeper{repo: repo, audit: auditOrNop(audit), now: utcNow, log: log}
}

// WithClock replaces the time source. Intended for tests.
func (s *ExpirySweeper) WithClock(now Clock) *ExpirySweeper {
	s.now = now
	return s
}

// Sweep scans all admins and clears every grant whose expiry is at or before
// now, in a single batched write. A failed write is not retried here.
func (s *ExpirySweeper) Sweep(ctx context.Context) (ports.SweepResult, error) {
	var res ports.SweepResult

	admins, err := s.repo.ListAdmins(ctx)
	if err != nil {
		metrics.SweepsTotal.WithLabelValues("error").Inc()
		return res, fmt.Errorf("sweep: list admins: %w", err)
	}
	res.Scanned = len(admins)

	now := s.now()
	expired := make([]string, 0)
	for _, a := range admins {
		if a.ExpiredAt(now) {
			expired = append(expired, a.UID)
		}
	}
	res.Expired = len(expired)

	if len(expired) > 0 {
		n, err := s.repo.DemoteAdmins(ctx, expired)
		if err != nil {
			metrics.SweepsTotal.WithLabelValues("error").Inc()
			return res, fmt.Errorf("sweep: demote %d admins: %w", len(expired), err)
		}
		res.Demoted = n

		for _, uid := range expired {
			s.audit.Record(domain.AuditEntry{UID: uid, Action: domain.AuditDemote, At: now})
		}
		metrics.AdminsDemotedTotal.Add(float64(n))
	}

	metrics.SweepsTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Int("scanned", res.Scanned).
		Int("expired", res.Expired).
		Int64("demoted", res.Demoted).
		Msg("expired admin sweep complete")

	return res, nil
}
