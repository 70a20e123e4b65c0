package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// channelCmd represents the channel command
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "YouTube channel operations",
	Long:  `Resolve YouTube channel URLs to canonical channel IDs and manage archived channels.`,
}

// channelResolveCmd resolves a channel URL without touching the database
var channelResolveCmd = &cobra.Command{
	Use:   "resolve [URL]",
	Short: "Resolve a channel URL to its canonical ID",
	Long: `Resolve a channel URL (/channel/ID, /@handle, /c/name or /user/name) to its
canonical channel ID. Canonical URLs are answered without a network request.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		factory, err := NewServiceFactory()
		if err != nil {
			return err
		}
		resolver, err := factory.Resolver()
		if err != nil {
			return err
		}

		channel, err := resolver.ResolveChannel(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve channel: %w", err)
		}

		return printJSON(channel)
	},
}

// channelSaveCmd resolves a channel and saves it to the database
var channelSaveCmd = &cobra.Command{
	Use:   "save [URL]",
	Short: "Resolve a channel and save it to the database",
	Long:  `Resolve a channel URL and save the channel to the archive database.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		factory, err := NewServiceFactory()
		if err != nil {
			return err
		}
		archive, cleanup, err := factory.CreateArchiveService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		channel, err := archive.SaveChannel(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to save channel: %w", err)
		}

		fmt.Printf("Successfully saved channel: %s (ID: %s)\n", orDash(channel.Name), channel.ID)
		return nil
	},
}

// channelListCmd lists archived channels
var channelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived channels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		factory, err := NewServiceFactory()
		if err != nil {
			return err
		}
		archive, cleanup, err := factory.CreateArchiveService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		channels, err := archive.ListChannels(ctx, limit, offset)
		if err != nil {
			return err
		}
		if len(channels) == 0 {
			fmt.Println("No channels found.")
			return nil
		}

		return printJSON(channels)
	},
}

func init() {
	rootCmd.AddCommand(channelCmd)
	channelCmd.AddCommand(channelResolveCmd)
	channelCmd.AddCommand(channelSaveCmd)
	channelCmd.AddCommand(channelListCmd)

	channelListCmd.Flags().Int("limit", 10, "Maximum number of channels to list")
	channelListCmd.Flags().Int("offset", 0, "Number of channels to skip")
}
