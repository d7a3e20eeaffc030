package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"agentdash/internal/config"
	"agentdash/internal/store"
)

const (
	migrateUp     = "up"
	migrateStatus = "status"
)

func newMigrateCommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   migrateUp,
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return wiring.runMigrate(cmd.Context(), migrateUp, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   migrateStatus,
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return wiring.runMigrate(cmd.Context(), migrateStatus, cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func runMigrations(ctx context.Context, action string, out io.Writer) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return err
	}
	db, err := store.OpenPostgres(store.PostgresOptions{URL: cfg.DatabaseURL(), MaxOpenConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case migrateUp:
		if err := store.Migrate(ctx, db); err != nil {
			return err
		}
	case migrateStatus:
	default:
		return fmt.Errorf("unknown migrate action: %s", action)
	}
	current, err := store.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema version %d\n", current)
	return nil
}
