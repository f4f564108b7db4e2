package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lagare24/cris-bel-water/internal/cache"
	"github.com/Lagare24/cris-bel-water/internal/config"
	"github.com/Lagare24/cris-bel-water/internal/handler"
	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/internal/seed"
	"github.com/Lagare24/cris-bel-water/internal/service"
	"github.com/Lagare24/cris-bel-water/internal/ws"
	"github.com/Lagare24/cris-bel-water/pkg/database"
	"github.com/Lagare24/cris-bel-water/pkg/jwt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting cris-bel water api")

	// 3. Connect database
	db, err := database.ConnectDB(&cfg.DB, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed successfully")
	}

	// 3a. Seed walk-in client and default products
	if cfg.SeedDefaults {
		if err := seed.Defaults(context.Background(), db); err != nil {
			log.Warn().Err(err).Msg("failed to seed default data")
		}
	}

	// 4. Realtime hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Idempotency store, only with redis configured
	var idempotency service.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisClient.Close()
		idempotency = cache.NewSaleIdempotency(redisClient, cfg.Redis.IdempotencyTTL)
		log.Info().Msg("redis connected successfully")
	} else {
		log.Info().Msg("redis not configured, Idempotency-Key support disabled")
	}

	// 6. Wiring
	clientRepo := repository.NewClientRepo(db)
	productRepo := repository.NewProductRepo(db)
	priceRepo := repository.NewPriceRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	reportRepo := repository.NewReportRepo(db)

	pricingService := service.NewPricingService(clientRepo, productRepo, priceRepo, db, wsHub)
	saleService := service.NewSaleService(clientRepo, productRepo, priceRepo, saleRepo, db, wsHub, idempotency)
	invoiceService := service.NewInvoiceService(saleRepo, invoiceRepo, db, wsHub, service.InvoiceOptions{
		Prefix:      cfg.Invoice.Prefix,
		MaxAttempts: cfg.Invoice.MaxAttempts,
	})
	reportService := service.NewReportService(reportRepo, saleRepo, clientRepo, productRepo)
	dashService := service.NewDashboardService(reportRepo, clientRepo)
	clientService := service.NewClientService(clientRepo)
	productService := service.NewProductService(productRepo)

	handlers := &handler.Handlers{
		Sales:     handler.NewSaleHandler(saleService),
		Invoices:  handler.NewInvoiceHandler(invoiceService),
		Reports:   handler.NewReportHandler(reportService),
		Clients:   handler.NewClientHandler(clientService),
		Products:  handler.NewProductHandler(productService),
		Pricing:   handler.NewPricingHandler(pricingService),
		Dashboard: handler.NewDashboardHandler(dashService),
	}

	// 7. Fiber app
	app := handler.NewApp(handlers, handler.AppOptions{
		AppName:     "Cris-Bel Water Refill API",
		CORSOrigins: cfg.CORSAllowOrigins,
		Tokens:      jwt.NewManager(cfg.JWTSecret, cfg.JWTIssuer, 0),
		Hub:         wsHub,
	})

	// 8. Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
