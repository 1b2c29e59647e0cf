// Package database manages the gorm connection and catalog schema.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/logger"
)

var db *gorm.DB

// Initialize sets up the database connection based on configuration and
// migrates the catalog schema.
func Initialize(cfg *config.DatabaseConfig) error {
	var err error

	switch cfg.Type {
	case "postgres":
		db, err = connectPostgres(cfg)
	case "sqlite":
		db, err = connectSQLite(cfg)
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", cfg.Type, err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	logger.Info("database initialized", logger.String("type", cfg.Type))
	return nil
}

// Migrate creates or updates the catalog schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&Movie{},
		&MovieProfile{},
		&Review{},
		&Watchlist{},
	); err != nil {
		return fmt.Errorf("failed to migrate catalog models: %w", err)
	}
	return nil
}

func connectPostgres(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresPort)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
}

func connectSQLite(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return db
}
