package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bes-dev/youtube-caption-finder/internal/service/youtube"
)

// videoCmd represents the video command
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Archived video operations",
	Long:  `Operations on videos archived by 'ytcaption search --save'.`,
}

// videoListCmd lists archived videos
var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived videos",
	Long: `List archived videos, most viewed first. --channel takes precedence over --query;
without either every archived video is listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		format, _ := cmd.Flags().GetString("format")
		formatter, err := NewFormatter(format)
		if err != nil {
			return err
		}

		filter := youtube.VideoFilter{}
		filter.ChannelID, _ = cmd.Flags().GetString("channel")
		filter.Query, _ = cmd.Flags().GetString("query")
		filter.Limit, _ = cmd.Flags().GetInt("limit")
		filter.Offset, _ = cmd.Flags().GetInt("offset")

		factory, err := NewServiceFactory()
		if err != nil {
			return err
		}
		archive, cleanup, err := factory.CreateArchiveService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		videos, err := archive.ListVideos(ctx, filter)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			fmt.Println("No videos found.")
			return nil
		}

		for _, video := range videos {
			line, err := formatter.Format(video)
			if err != nil {
				return err
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videoCmd)
	videoCmd.AddCommand(videoListCmd)

	videoListCmd.Flags().String("channel", "", "Only videos of this channel ID")
	videoListCmd.Flags().String("query", "", "Only videos found by this search query")
	videoListCmd.Flags().Int("limit", 10, "Maximum number of videos to list")
	videoListCmd.Flags().Int("offset", 0, "Number of videos to skip")
	videoListCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}
