package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/config"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const baseRetryDelay = 500 * time.Millisecond

// ConnectDB opens the PostgreSQL connection pool, retrying with exponential
// backoff while the database is still starting up.
func ConnectDB(cfg *config.DatabaseConfig, production bool) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := open(cfg, production)
		if err == nil {
			log.Info().Int("attempt", attempt).Msg("database connection established")
			return db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not reachable yet")
		if attempt < attempts {
			sleepWithBackoff(attempt)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}

func open(cfg *config.DatabaseConfig, production bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
	}), GormConfig(production))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// GormConfig is shared by the server and the test harness so both store UTC timestamps.
func GormConfig(production bool) *gorm.Config {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	return &gorm.Config{
		Logger: logger.New(
			&log.Logger,
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: false,
	}
}

// sleepWithBackoff sleeps base * 2^(attempt-1), capped to 5s.
func sleepWithBackoff(attempt int) {
	d := baseRetryDelay << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}
