package main

import (
	"fmt"

	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/architeacher/records/services/svc-records/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the records schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init()
		if err != nil {
			return err
		}

		if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")

		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackSteps < 1 {
			return fmt.Errorf("--steps must be at least 1, got %d", rollbackSteps)
		}

		cfg, err := config.Init()
		if err != nil {
			return err
		}

		if err := postgres.Rollback(cfg.Database.DSN(), rollbackSteps); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "reverted %d migration(s)\n", rollbackSteps)

		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to revert")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
