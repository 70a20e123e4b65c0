package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bes-dev/youtube-caption-finder/internal/config"
	"github.com/bes-dev/youtube-caption-finder/migrations"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the archive database",
	Long:  `Apply or roll back the archive schema and inspect its version.`,
}

// dbMigrateCmd applies or rolls back schema migrations
var dbMigrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back schema migrations",
	Long:      `Apply all pending migrations (up, the default) or roll back --steps migrations (down).`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		migrationURL, err := loadMigrationURL()
		if err != nil {
			return err
		}

		direction := "up"
		if len(args) > 0 {
			direction = args[0]
		}
		steps, _ := cmd.Flags().GetInt("steps")

		if direction == "down" {
			if err := migrations.Down(migrationURL, steps); err != nil {
				return err
			}
		} else if err := migrations.Up(migrationURL); err != nil {
			return err
		}

		version, dirty, err := migrations.Version(migrationURL)
		if err != nil {
			return err
		}
		log.Info().Str("direction", direction).Uint("version", version).Bool("dirty", dirty).Msg("Migrations applied")
		fmt.Printf("Schema version: %d\n", version)
		return nil
	},
}

// dbVersionCmd prints the current schema version
var dbVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrationURL, err := loadMigrationURL()
		if err != nil {
			return err
		}

		version, dirty, err := migrations.Version(migrationURL)
		if err != nil {
			return err
		}
		if dirty {
			fmt.Printf("Schema version: %d (dirty)\n", version)
		} else {
			fmt.Printf("Schema version: %d\n", version)
		}
		return nil
	},
}

func loadMigrationURL() (string, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	dbConfig, err := cfg.ParseDatabaseConfig()
	if err != nil {
		return "", err
	}
	return dbConfig.MigrationURL(), nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbVersionCmd)

	dbMigrateCmd.Flags().Int("steps", 1, "Number of migrations to roll back with down (0 = all)")
}
