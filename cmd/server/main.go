// @title        User Admin API
// @version      1.0
// @description  Ban users, grant admin rights with shared codes and list accounts.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/user-admin/internal/api"
	"github.com/99minutos/user-admin/internal/core/service"
	"github.com/99minutos/user-admin/internal/infrastructure/config"
	"github.com/99minutos/user-admin/internal/infrastructure/db"
	"github.com/99minutos/user-admin/internal/infrastructure/queue"
	"github.com/99minutos/user-admin/internal/infrastructure/scheduler"
	"github.com/99minutos/user-admin/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-admin",
	})

	stores, err := db.Open(ctx, &cfg.Storage, db.LimiterSettings{
		MaxFailures: cfg.Login.MaxFailures,
		Lockout:     cfg.Login.Lockout,
	}, logger.For("store"))
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open user store")
	}

	// Audit writes outlive request contexts; they stop once the queue drains.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, stores.Audit, logger.For("audit"))
	audit.Start(auditCtx)

	codes := service.GrantCodes{
		Permanent:    cfg.Grant.PermanentCode,
		Temporary:    cfg.Grant.TemporaryCode,
		TemporaryTTL: cfg.Grant.TemporaryTTL,
	}

	bans := service.NewBanService(stores.Users, audit, logger.For("bans"))
	grants := service.NewGrantService(stores.Users, codes, audit, logger.For("grants"))
	users := service.NewUserService(stores.Users, logger.For("users"))
	auth := service.NewAuthService(stores.Admins, stores.Limiter, cfg.JWTSecret, cfg.TokenTTL, logger.For("auth"))
	sweeper := service.NewExpirySweeper(stores.Users, audit, logger.For("sweeper"))

	sched := scheduler.New(sweeper, cfg.Sweep.Interval, cfg.Sweep.OnStart, logger.For("scheduler"))
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start sweep scheduler")
	}

	e := api.NewRouter(api.Deps{
		Bans:        bans,
		Grants:      grants,
		Users:       users,
		Auth:        auth,
		JWTSecret:   cfg.JWTSecret,
		RequireAuth: cfg.RequireAuth,
		Readiness:   stores.Readiness,
		Log:         logger.For("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Storage.Backend).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	sched.Stop()
	audit.Close()
	stopAudit()
	if err := stores.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing stores")
	}
	log.Info().Msg("bye")
}
