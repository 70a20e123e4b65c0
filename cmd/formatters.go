package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bes-dev/youtube-caption-finder/internal/model"
)

// Formatter renders one video per line
type Formatter interface {
	Format(video *model.Video) (string, error)
}

// TextFormatter formats a video as a tab-separated line
type TextFormatter struct{}

// Format formats video as plain text
func (f *TextFormatter) Format(video *model.Video) (string, error) {
	date := "unknown"
	if !video.UploadDate.IsZero() {
		date = video.UploadDate.Format("2006-01-02")
	}

	fields := []string{
		video.ID,
		fmt.Sprintf("%d views", video.Views),
		fmt.Sprintf("%d likes", video.Likes),
		date,
		orDash(video.ChannelName),
		orDash(video.Title),
		video.URL,
	}
	line := strings.Join(fields, "\t")
	if video.Excerpt != "" {
		line += "\t\"" + truncateString(video.Excerpt, 120) + "\""
	}
	return line, nil
}

// JSONFormatter formats a video as one JSON object per line
type JSONFormatter struct{}

// Format formats video as compact JSON
func (f *JSONFormatter) Format(video *model.Video) (string, error) {
	data, err := json.Marshal(video)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// NewFormatter returns the formatter for an output format name
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (expected text or json)", format)
	}
}

// truncateString truncates a string to the specified number of runes
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printJSON prints v as indented JSON
func printJSON(v any) error {
	result, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Println(string(result))
	return nil
}
