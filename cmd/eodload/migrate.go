package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/rickgao/eod-pipeline/internal/config"
	"github.com/rickgao/eod-pipeline/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the warehouse schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate((*migrate.Migrate).Up, "up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate((*migrate.Migrate).Down, "down")
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(direction func(*migrate.Migrate) error, name string) error {
	logger := slog.Default()

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := migrate.New(cfg.Migrations.SourceURL, database.BuildConnString(cfg.Warehouse))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	err = direction(m)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema already migrated", "direction", name)
	case err != nil:
		return fmt.Errorf("migrate %s: %w", name, err)
	default:
		logger.Info("schema migrated", "direction", name)
	}
	return nil
}
