package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trackify/internal/config"
)

// ConnectPostgres opens the gorm pool and brings the sightings table up to
// date.
func ConnectPostgres(cfg config.PostgresConfig, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}
	log.Info().Int("migrations", len(migrationStatements)).Msg("postgres schema ready")
	return db, nil
}
