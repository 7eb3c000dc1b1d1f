package main

import (
	"errors"
	"fmt"

	"restaurant-rag/pkg/config"
	"restaurant-rag/pkg/postgres"

	"github.com/spf13/cobra"
)

var errSQLiteMigrations = errors.New("sqlite applies its schema on open, migrations are postgres only")

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back postgres schema migrations",
	}
	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DatabaseDriverPostgres {
				return errSQLiteMigrations
			}
			if err := postgres.Migrate(&cfg.Database, appLogger); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive, got %d", steps)
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DatabaseDriverPostgres {
				return errSQLiteMigrations
			}
			if err := postgres.MigrateDown(&cfg.Database, steps); err != nil {
				return err
			}
			fmt.Printf("Rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}
