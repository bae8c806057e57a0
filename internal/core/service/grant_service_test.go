package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/infrastructure/db/memory"
)

const (
	testPermanentCode = "12907996921625568987"
	testTemporaryCode = "11653768"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newGrantSvc(repo *memory.UserRepository) *GrantService {
	codes := GrantCodes{Permanent: testPermanentCode, Temporary: testTemporaryCode}
	return NewGrantService(repo, codes, nil, zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })
}

func TestGrantService_Permanent(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	// Prior temporary grant is overwritten.
	_, err := repo.Upsert(ctx, "u1", domain.UserPatch{Admin: domain.TemporaryAdmin(fixedNow.Add(time.Hour))})
	require.NoError(t, err)

	res, err := newGrantSvc(repo).GrantAdmin(ctx, "u1", testPermanentCode)
	require.NoError(t, err)
	require.Equal(t, domain.AdminPermanent, res.Type)
	require.Nil(t, res.ExpiresAt)

	rec, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, rec.IsAdmin)
	require.Nil(t, rec.AdminExpiresAt)
}

func TestGrantService_Temporary(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()

	res, err := newGrantSvc(repo).GrantAdmin(ctx, "u1", testTemporaryCode)
	require.NoError(t, err)
	require.Equal(t, domain.AdminTemporary, res.Type)
	require.NotNil(t, res.ExpiresAt)
	require.True(t, res.ExpiresAt.Equal(fixedNow.Add(10*24*time.Hour)))

	rec, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, rec.IsAdmin)
	require.NotNil(t, rec.AdminExpiresAt)
	require.True(t, rec.AdminExpiresAt.Equal(*res.ExpiresAt))
}

func TestGrantService_TemporaryExpiryIsMillisecondPrecision(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()
	now := fixedNow.Add(123456789 * time.Nanosecond)

	svc := NewGrantService(repo, GrantCodes{Permanent: testPermanentCode, Temporary: testTemporaryCode}, nil, zerolog.Nop()).
		WithClock(func() time.Time { return now })

	res, err := svc.GrantAdmin(ctx, "u1", testTemporaryCode)
	require.NoError(t, err)
	require.NotNil(t, res.ExpiresAt)

	want := fixedNow.Add(10*24*time.Hour + 123*time.Millisecond)
	require.True(t, res.ExpiresAt.Equal(want), "got %s", res.ExpiresAt.Format(time.RFC3339Nano))

	rec, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, rec.AdminExpiresAt.Equal(*res.ExpiresAt))
}

func TestGrantService_InvalidCodeLeavesRecordUnchanged(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()
	_, err := repo.Upsert(ctx, "u1", domain.UserPatch{Banned: ptr(true)})
	require.NoError(t, err)
	before, _ := repo.Get(ctx, "u1")

	_, err = newGrantSvc(repo).GrantAdmin(ctx, "u1", "garbage")
	require.ErrorIs(t, err, domain.ErrInvalidCode)

	after, _ := repo.Get(ctx, "u1")
	require.Equal(t, before, after)

	_, err = repo.Get(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = newGrantSvc(repo).GrantAdmin(ctx, "nobody", "garbage")
	require.ErrorIs(t, err, domain.ErrInvalidCode)
	_, err = repo.Get(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound, "invalid code must not create a record")
}

func TestGrantService_MissingFields(t *testing.T) {
	svc := newGrantSvc(memory.NewUserRepository())

	_, err := svc.GrantAdmin(context.Background(), "", testPermanentCode)
	require.True(t, domain.IsValidation(err))
	require.EqualError(t, err, "Missing uid or code")

	_, err = svc.GrantAdmin(context.Background(), "u1", "")
	require.True(t, domain.IsValidation(err))
}

func TestGrantService_UnsetCodeNeverMatches(t *testing.T) {
	svc := NewGrantService(memory.NewUserRepository(), GrantCodes{Permanent: testPermanentCode}, nil, zerolog.Nop())

	_, err := svc.GrantAdmin(context.Background(), "u1", "")
	require.Error(t, err)
	_, err = svc.GrantAdmin(context.Background(), "u1", testTemporaryCode)
	require.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestGrantService_RecordsAudit(t *testing.T) {
	audit := &recordingAudit{}
	codes := GrantCodes{Permanent: testPermanentCode, Temporary: testTemporaryCode}
	svc := NewGrantService(memory.NewUserRepository(), codes, audit, zerolog.Nop())

	_, err := svc.GrantAdmin(context.Background(), "u1", testTemporaryCode)
	require.NoError(t, err)
	_, err = svc.GrantAdmin(context.Background(), "u1", "garbage")
	require.Error(t, err)

	require.Equal(t, []domain.AuditAction{domain.AuditGrantTemporary}, audit.actions())
}

func TestGrantService_StoreError(t *testing.T) {
	codes := GrantCodes{Permanent: testPermanentCode}
	svc := NewGrantService(failingUserRepo{}, codes, nil, zerolog.Nop())

	_, err := svc.GrantAdmin(context.Background(), "u1", testPermanentCode)
	require.ErrorIs(t, err, errStore)
}

func ptr[T any](v T) *T { return &v }
