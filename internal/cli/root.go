// Package cli holds the merchctl commands for operating a merch-nexus
// database outside the HTTP server.
package cli

import (
	"merch-nexus/internal/config"
	"merch-nexus/internal/database"
	"merch-nexus/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env bundles what every subcommand needs once the root command has run.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     database.Service
}

// RootCommand builds the merchctl command tree.
func RootCommand() *cobra.Command {
	var (
		migrationsDir string
		e             env
	)

	root := &cobra.Command{
		Use:           "merchctl",
		Short:         "Operate the merch-nexus database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.cfg = config.Load()

			log, err := logger.New(e.cfg.Server.Env)
			if err != nil {
				return err
			}
			e.logger = log

			e.db, err = database.New(e.cfg.Database)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = e.logger.Sync()
			return e.db.Close()
		},
	}

	root.PersistentFlags().StringVar(&migrationsDir, "migrations", "migrations", "Directory holding the goose migrations")

	root.AddCommand(
		migrateCommand(&e, &migrationsDir),
		seedCommand(&e),
	)

	return root
}
