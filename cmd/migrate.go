package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/config"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version|force]",
	Short:     "Manage database schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version", "force"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Int("version", 0, "Target version for the force action")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewSQLDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, "pontoface")
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch args[0] {
	case "up":
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		fmt.Println("Migrations completed")

	case "down":
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		fmt.Println("Last migration rolled back")

	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		if dirty {
			fmt.Printf("Current version: %d (DIRTY - migration incomplete)\n", version)
		} else {
			fmt.Printf("Current version: %d\n", version)
		}

	case "force":
		target := mustGetInt(cmd, "version")
		if target == 0 {
			return fmt.Errorf("--version flag is required for force")
		}
		if err := migrator.Force(target); err != nil {
			return fmt.Errorf("force migration failed: %w", err)
		}
		fmt.Printf("Migration version forced to %d\n", target)
	}

	return nil
}
