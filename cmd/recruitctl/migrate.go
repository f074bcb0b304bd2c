package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the PostgreSQL schema",
	Long:  "Runs the gorm auto-migration for every pipeline record. The badger driver keeps no schema, so migrate is a no-op there.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Printf("ℹ️  Storage driver %s needs no migration", cfg.Storage.Driver)
		return nil
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
