// Package commands holds the bilancio-admin CLI: maintenance operations
// that run against the database directly, without the HTTP server.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bilancio/internal/config"
	"bilancio/internal/storage"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bilancio-admin",
		Short: "Household finance maintenance CLI",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newForecastCommand())

	return rootCmd
}

// openRepository loads the environment and opens the configured database,
// running pending migrations on the way.
func openRepository() (*storage.Repository, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return storage.NewRepository(cfg.SQLiteDBPath)
}
