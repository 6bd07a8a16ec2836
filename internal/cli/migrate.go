package cli

import (
	"merch-nexus/internal/database"

	"github.com/spf13/cobra"
)

// migrateCommand creates the migrate command and its up/status/down children
func migrateCommand(e *env, migrationsDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, inspect or roll back schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.RunMigrations(e.db.DB().DB, *migrationsDir, e.logger)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.MigrationStatus(e.db.DB().DB, *migrationsDir)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.RollbackMigration(e.db.DB().DB, *migrationsDir, e.logger)
			},
		},
	)

	return cmd
}
