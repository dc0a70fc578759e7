package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the postgres schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrate needs the postgres driver, got %q", cfg.Database.Driver)
		}

		pool, err := database.NewPostgresPool(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		return database.Migrate(cmd.Context(), pool, logger)
	},
}
