package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bes-dev/youtube-caption-finder/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for ytcaption.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with the default search settings and an optional database URL.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}

		if err := config.InitConfig(databaseURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		if databaseURL == "" {
			fmt.Println("Set database_url in this file to archive results in PostgreSQL.")
		}

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file path and the effective settings, including environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration file: %s\n\n", configPath)

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		settings := []struct {
			key   string
			value any
		}{
			{"base_url", cfg.BaseURL},
			{"channel_base_url", cfg.ChannelBaseURL},
			{"log_level", cfg.LogLevel},
			{"database_url", cfg.RedactedDatabaseURL()},
			{"http.timeout", cfg.HTTP.Timeout},
			{"http.proxy_url", cfg.HTTP.ProxyURL},
			{"http.retry_max", cfg.HTTP.RetryMax},
			{"http.rate_limit", cfg.HTTP.RateLimit},
			{"http.user_agent", cfg.HTTP.UserAgent},
			{"pagination.signal", cfg.Pagination.Signal},
			{"pagination.page_size", cfg.Pagination.PageSize},
			{"channel_cache_size", cfg.ChannelCacheSize},
		}
		for _, s := range settings {
			fmt.Printf("%-22s %v\n", s.key+":", s.value)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
