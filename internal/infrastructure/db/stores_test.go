package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/infrastructure/config"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &config.StorageConfig{Backend: config.BackendMemory}, LimiterSettings{}, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close(ctx)

	require.Nil(t, s.Limiter)
	require.Empty(t, s.Readiness)

	_, err = s.Users.Upsert(ctx, "u1", domain.UserPatch{Banned: ptr(true)})
	require.NoError(t, err)

	u, err := s.Users.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, u.Banned)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.StorageConfig{Backend: "sqlite"}, LimiterSettings{}, zerolog.Nop())
	require.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
