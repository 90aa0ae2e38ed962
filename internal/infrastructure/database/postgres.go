package database

import (
	"errors"
	"fmt"

	"github.com/sangkips/kasir-api/internal/config"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// The checkout path only reads vouchers and settings; a small pool is enough.
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)

	logger.Info("database", "Connected to PostgreSQL", "host", cfg.Host, "name", cfg.Name)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logger.Info("database", "Running migrations")

	err := db.AutoMigrate(
		&entity.Voucher{},
		&entity.StoreSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database", "Migrations completed")
	return nil
}

// SeedStoreSettings stores defaults as the store settings row unless one
// already exists.
func SeedStoreSettings(db *gorm.DB, defaults entity.StoreSettings) error {
	var existing entity.StoreSettings
	err := db.Order("created_at ASC").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to read store settings: %w", err)
	}

	if err := db.Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed store settings: %w", err)
	}
	logger.Info("database", "Seeded store settings", "name", defaults.Name)
	return nil
}
