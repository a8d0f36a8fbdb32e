package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/config"
	"github.com/Veraticus/sol-search/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the SQLite transaction database",
		Long: `Initialize or update the database schema to the latest version and seed
it when empty. Records come from storage.seed_file when set, otherwise the
built-in sample account is used.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "show the schema version without applying changes")
	cmd.Flags().String("db", "", "database path (default from storage.path)")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath, _ := cmd.Flags().GetString("db")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Storage.Path = config.ExpandPath(dbPath)
	}
	cfg.Storage.Driver = config.DriverSQLite

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if status {
		store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = store.Close() }()

		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Database:        %s\n", store.Path())
		fmt.Fprintf(out, "Current version: %d\n", current)
		fmt.Fprintf(out, "Latest version:  %d\n", storage.ExpectedSchemaVersion)
		return nil
	}

	slog.Info("Running database migrations", "database", cfg.Storage.Path)

	store, err := app.OpenStorage(ctx, cfg.Storage, slog.Default())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer func() { _ = store.Close() }()

	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	slog.Info("Database migrations completed successfully", "records", n)
	return nil
}
