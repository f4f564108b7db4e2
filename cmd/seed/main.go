package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/config"
	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/seed"
	"github.com/Lagare24/cris-bel-water/pkg/database"
	"github.com/Lagare24/cris-bel-water/pkg/jwt"

	"github.com/rs/zerolog/log"
)

func main() {
	role := flag.String("token-role", "", "also print a bearer token for this role (Admin or Staff)")
	tokenTTL := flag.Duration("token-ttl", 12*time.Hour, "lifetime of the printed token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.ConnectDB(&cfg.DB, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := seed.Defaults(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("default data is in place")

	if *role != "" {
		token, err := jwt.NewManager(cfg.JWTSecret, cfg.JWTIssuer, *tokenTTL).GenerateToken("seed", "seed", *role)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to issue token")
		}
		fmt.Println(token)
	}
}
