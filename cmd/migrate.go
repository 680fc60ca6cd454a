package cmd

import (
	"fmt"

	"github.com/killallgit/dubber-api/internal/database"
	"github.com/killallgit/dubber-api/pkg/config"
	"github.com/spf13/cobra"
)

// migrateCmd applies the sqlite schema for the persisted result cache
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply the database schema for the Dubber API.

The server keeps its session state in memory; the database persists only the
cross-session audio result cache. This command brings that schema up to date
and is safe to run repeatedly.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database migrated: %s\n", cfg.Database.Path)
	return nil
}
