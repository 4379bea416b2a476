// cmd/createadmin/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/auth"
	"github.com/casaluxe/stay/internal/cognito"
	"github.com/casaluxe/stay/internal/config"
	"github.com/casaluxe/stay/internal/db"
	"github.com/casaluxe/stay/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		email      = flag.String("email", "", "Admin e-mail")
		password   = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password (or ADMIN_PASSWORD)")
		reset      = flag.Bool("reset", false, "Set a new password for an existing admin instead of creating one")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.Auth.Provider {
	case "cognito":
		cg := cfg.Auth.Cognito
		client, err := cognito.NewClient(ctx, cg.Region, cg.UserPoolID, cg.ClientID, cg.ClientSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Cognito client")
		}
		if *reset {
			if err := client.SetPassword(ctx, *email, *password); err != nil {
				log.Fatal().Err(err).Msg("Failed to reset Cognito admin password")
			}
			log.Info().Str("email", *email).Msg("Cognito admin password reset")
			return
		}
		if err := client.CreateAdmin(ctx, *email, *password); err != nil {
			log.Fatal().Err(err).Msg("Failed to create Cognito admin")
		}
		log.Info().Str("email", *email).Msg("Cognito admin created")
	case "local":
		database, err := db.NewFromConfig(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer database.Close()
		users := store.NewSQLite(database)

		if *reset {
			if err := auth.ResetLocalAdminPassword(ctx, users, *email, *password); err != nil {
				log.Fatal().Err(err).Msg("Failed to reset admin password")
			}
			log.Info().Str("email", *email).Msg("Admin password reset")
			return
		}
		user, err := auth.CreateLocalAdmin(ctx, users, *email, *password)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create admin")
		}
		log.Info().Str("email", user.Email).Str("id", user.ID).Msg("Admin created")
	default:
		log.Fatal().Str("provider", cfg.Auth.Provider).Msg("Admins for this provider are managed in its dashboard")
	}
}
