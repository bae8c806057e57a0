// Command seed-admin creates or resets an operator account for /adminLogin.
//
//	seed-admin -username ops -password 's3cret' [-uid firebase-uid]
//
// The store is selected with the same STORE_BACKEND settings as the server.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/99minutos/user-admin/internal/core/service"
	"github.com/99minutos/user-admin/internal/infrastructure/config"
	"github.com/99minutos/user-admin/internal/infrastructure/db"
	"github.com/99minutos/user-admin/pkg/logger"
)

func main() {
	username := flag.String("username", "", "operator username")
	password := flag.String("password", "", "operator password")
	uid := flag.String("uid", "", "uid returned on login (defaults to the username)")
	flag.Parse()

	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true})

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.LoadStorage(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid storage configuration")
	}

	cfg.Redis.Addr = ""

	stores, err := db.Open(ctx, cfg, db.LimiterSettings{}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user store")
	}
	defer stores.Close(context.Background())

	// Register only hashes and stores, so the signing settings are unused.
	auth := service.NewAuthService(stores.Admins, nil, "", 0, log)
	if err := auth.Register(ctx, *username, *password, *uid); err != nil {
		log.Fatal().Err(err).Str("username", *username).Msg("failed to save operator")
	}

	log.Info().Str("username", *username).Str("backend", cfg.Backend).Msg("operator saved")
}
