package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/rentflow/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the unit directory schema to the latest version.

This command ensures the database has the tables and indexes the
callback server needs to resolve units and settlement accounts.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		slog.Info("Database migration status",
			"database", store.Path(),
			"current_version", current,
			"latest_version", storage.ExpectedSchemaVersion,
			"pending", storage.ExpectedSchemaVersion-current)
		return nil
	}

	slog.Info("Running database migrations", "database", store.Path(), "from_version", current)

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Database migrations completed", "version", storage.ExpectedSchemaVersion)
	return nil
}
