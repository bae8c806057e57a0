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

func TestUserService_CreateUser_Idempotent(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "u1", "first@example.com")
	require.NoError(t, err)
	require.True(t, created)
	first, _ := repo.Get(ctx, "u1")

	created, err = svc.CreateUser(ctx, "u1", "second@example.com")
	require.NoError(t, err)
	require.False(t, created)

	second, _ := repo.Get(ctx, "u1")
	require.Equal(t, "first@example.com", second.Email)
	require.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestUserService_CreateUser_MissingUID(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository(), zerolog.Nop())

	_, err := svc.CreateUser(context.Background(), "", "a@example.com")
	require.True(t, domain.IsValidation(err))
	require.EqualError(t, err, "Missing uid")
}

func TestUserService_ListAdmins_TypeFollowsExpiry(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()
	lapsed := fixedNow.Add(-time.Hour)
	_, _ = repo.Upsert(ctx, "a-perm", domain.UserPatch{Admin: domain.PermanentAdmin()})
	_, _ = repo.Upsert(ctx, "b-lapsed", domain.UserPatch{Admin: domain.TemporaryAdmin(lapsed)})
	_, _ = repo.Upsert(ctx, "c-user", domain.UserPatch{Banned: ptr(false)})

	admins, err := NewUserService(repo, zerolog.Nop()).ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)

	require.Equal(t, "a-perm", admins[0].UID)
	require.Equal(t, domain.AdminPermanent, admins[0].Type)
	require.Nil(t, admins[0].ExpiresAt)

	// A lapsed grant that has not been swept yet is still "temporary".
	require.Equal(t, "b-lapsed", admins[1].UID)
	require.Equal(t, domain.AdminTemporary, admins[1].Type)
	require.True(t, admins[1].ExpiresAt.Equal(lapsed))
}

func TestUserService_ListUsers(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()
	_, _ = repo.Create(ctx, "u1", "")
	_, _ = repo.Upsert(ctx, "u2", domain.UserPatch{Banned: ptr(true)})

	users, err := NewUserService(repo, zerolog.Nop()).ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.True(t, users[1].Banned)
}

func TestUserService_StoreErrors(t *testing.T) {
	svc := NewUserService(failingUserRepo{}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.ListAdmins(ctx)
	require.ErrorIs(t, err, errStore)
	_, err = svc.ListUsers(ctx)
	require.ErrorIs(t, err, errStore)
	_, err = svc.CreateUser(ctx, "u1", "")
	require.ErrorIs(t, err, errStore)
}
