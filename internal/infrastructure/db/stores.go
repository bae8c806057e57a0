// Package db opens the store selected by configuration and exposes it through
// the core repository ports.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/infrastructure/config"
	fsstore "github.com/99minutos/user-admin/internal/infrastructure/db/firestore"
	"github.com/99minutos/user-admin/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/user-admin/internal/infrastructure/db/mongo"
	pgstore "github.com/99minutos/user-admin/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/user-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/user-admin/internal/infrastructure/http/handlers"
)

// Stores bundles the repositories of one backend.
type Stores struct {
	Users  ports.UserRepository
	Admins ports.AdminRepository
	Audit  ports.AuditRepository
	// Limiter is nil when Redis is not configured or unreachable.
	Limiter ports.LoginLimiter
	// Readiness holds one ping per connected dependency.
	Readiness map[string]handlers.PingFunc

	closers []func(context.Context) error
}

// LimiterSettings tune the Redis login limiter.
type LimiterSettings struct {
	MaxFailures int
	Lockout     time.Duration
}

// Open connects to the backend named in cfg, prepares its schema and, when
// REDIS_ADDR is set, the login limiter.
func Open(ctx context.Context, cfg *config.StorageConfig, limits LimiterSettings, log zerolog.Logger) (*Stores, error) {
	s := &Stores{Readiness: make(map[string]handlers.PingFunc)}

	var err error
	switch cfg.Backend {
	case config.BackendMongo:
		err = s.openMongo(ctx, cfg.Mongo)
	case config.BackendPostgres:
		err = s.openPostgres(ctx, cfg.Postgres)
	case config.BackendFirestore:
		err = s.openFirestore(ctx, cfg.Firestore)
	case config.BackendMemory:
		s.Users = memory.NewUserRepository()
		s.Admins = memory.NewAdminRepository()
		s.Audit = memory.NewAuditRepository()
	default:
		err = fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		s.Close(context.Background())
		return nil, err
	}
	log.Info().Str("backend", cfg.Backend).Msg("user store ready")

	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		} else {
			s.Limiter = redisstore.NewLoginLimiter(client, limits.MaxFailures, limits.Lockout)
			s.Readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		}
	}

	return s, nil
}

func (s *Stores) openMongo(ctx context.Context, cfg config.MongoConfig) error {
	client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, client.Disconnect)

	if err := mongostore.EnsureIndexes(ctx, database); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}

	s.Users = mongostore.NewUserRepository(database)
	s.Admins = mongostore.NewAdminRepository(database)
	s.Audit = mongostore.NewAuditRepository(database)
	s.Readiness["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	return nil
}

func (s *Stores) openPostgres(ctx context.Context, cfg config.PostgresConfig) error {
	if err := pgstore.Migrate(cfg.DSN); err != nil {
		return err
	}

	pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.DSN})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error {
		pool.Close()
		return nil
	})

	s.Users = pgstore.NewUserRepository(pool)
	s.Admins = pgstore.NewAdminRepository(pool)
	s.Audit = pgstore.NewAuditRepository(pool)
	s.Readiness["postgres"] = pool.Ping
	return nil
}

func (s *Stores) openFirestore(ctx context.Context, cfg config.FirestoreConfig) error {
	client, err := fsstore.Connect(ctx, fsstore.Config{ProjectID: cfg.ProjectID, CredentialsJSON: cfg.Key})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	s.Users = fsstore.NewUserRepository(client)
	s.Admins = fsstore.NewAdminRepository(client)
	s.Audit = fsstore.NewAuditRepository(client)
	s.Readiness["firestore"] = func(ctx context.Context) error { return fsstore.Ping(ctx, client) }
	return nil
}

// Close releases every connection in reverse order of opening.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
