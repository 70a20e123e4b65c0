package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bes-dev/youtube-caption-finder/internal/config"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytcaption",
	Short: "Search YouTube videos by what is said in their captions",
	Long: `ytcaption searches a caption index for videos whose subtitles contain a phrase,
with filters for views, likes, duration, upload date and license, and can archive
the hits and resolved channels in PostgreSQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging configures the global zerolog logger from the config file and flags
func setupLogging() error {
	level := zerolog.InfoLevel
	cfg, err := config.NewConfig()
	if err == nil {
		level, err = cfg.Level()
	}
	if err != nil {
		return err
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
