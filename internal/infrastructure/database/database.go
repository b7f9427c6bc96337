package database

import (
	"fmt"
	"log"

	"github.com/sangkips/printledger/internal/config"
	"github.com/sangkips/printledger/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case "postgres":
		return NewPostgresDB(cfg, gormCfg)
	case "sqlite", "":
		return NewSQLiteDB(cfg.SQLitePath, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// NewSQLiteDB opens (or creates) a SQLite database file. The path may also be
// a "file:...?mode=memory" URI.
func NewSQLiteDB(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite serialises writers; a single connection avoids "database is locked".
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Using SQLite database at %s", path)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.ClientPreference{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
