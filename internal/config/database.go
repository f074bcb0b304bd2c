package config

import (
	"fmt"
	"log"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ Database migration completed")

	return db, nil
}

// Migrate creates or updates the table of every pipeline record.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// OpenStore opens the store adapter selected by STORAGE_DRIVER.
func OpenStore(cfg *Config, logger *slog.Logger) (repositories.Store, error) {
	switch cfg.Storage.Driver {
	case DriverBadger:
		store, err := repositories.OpenBadgerStore(repositories.BadgerOptions{
			Path:       cfg.Storage.BadgerPath,
			InMemory:   cfg.Storage.BadgerInMemory,
			SyncWrites: cfg.Storage.BadgerSyncWrite,
			Logger:     logger.With(slog.String("component", "badger")),
		})
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Badger store opened (%s)", badgerLocation(cfg))
		return store, nil
	case DriverPostgres:
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func badgerLocation(cfg *Config) string {
	if cfg.Storage.BadgerInMemory {
		return "in-memory"
	}
	return cfg.Storage.BadgerPath
}
