package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":           "secret",
		"PERMANENT_ADMIN_CODE": "perm",
		"TEMP_ADMIN_CODE":      "temp",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(baseEnv()))
	require.NoError(t, err)

	require.Equal(t, "10000", cfg.Port)
	require.Equal(t, BackendMongo, cfg.Storage.Backend)
	require.Equal(t, 240*time.Hour, cfg.Grant.TemporaryTTL)
	require.Equal(t, time.Hour, cfg.Sweep.Interval)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 5, cfg.Login.MaxFailures)
	require.Equal(t, 4, cfg.AuditWorkers)
	require.False(t, cfg.RequireAuth)
	require.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "PERMANENT_ADMIN_CODE")

	_, err := load(context.Background(), envconfig.MapLookuper(env))
	require.Error(t, err)
}

func TestLoad_BackendCredentials(t *testing.T) {
	tests := []struct {
		name    string
		extra   map[string]string
		wantErr bool
	}{
		{"postgres without dsn", map[string]string{"STORE_BACKEND": "postgres"}, true},
		{"postgres with dsn", map[string]string{"STORE_BACKEND": "postgres", "POSTGRES_DSN": "postgres://x"}, false},
		{"firestore without key", map[string]string{"STORE_BACKEND": "firestore"}, true},
		{"firestore with key", map[string]string{"STORE_BACKEND": "Firestore", "FIREBASE_KEY": "{}"}, false},
		{"memory", map[string]string{"STORE_BACKEND": "memory"}, false},
		{"unknown", map[string]string{"STORE_BACKEND": "sqlite"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := baseEnv()
			for k, v := range tc.extra {
				env[k] = v
			}
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_CodesMustDiffer(t *testing.T) {
	env := baseEnv()
	env["TEMP_ADMIN_CODE"] = "perm"

	_, err := load(context.Background(), envconfig.MapLookuper(env))
	require.Error(t, err)
}

func TestLoadStorage_IgnoresServerSettings(t *testing.T) {
	cfg, err := loadStorage(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_BACKEND": "postgres",
		"POSTGRES_DSN":  "postgres://localhost/users",
	}))
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.Backend)
	require.Equal(t, "postgres://localhost/users", cfg.Postgres.DSN)
}
