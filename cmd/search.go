package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bes-dev/youtube-caption-finder/internal/service/channel"
	"github.com/bes-dev/youtube-caption-finder/internal/service/search"
	"github.com/bes-dev/youtube-caption-finder/internal/service/youtube"
)

// requestOptions holds the flags that shape a search request
type requestOptions struct {
	channel     string
	title       string
	minViews    int64
	maxViews    int64
	minLikes    int64
	maxLikes    int64
	minDuration int64
	maxDuration int64
	startDate   string
	endDate     string
	license     string
	sortField   string
	sortOrder   string
}

// searchOptions holds the raw search flags
type searchOptions struct {
	requestOptions
	all    bool
	limit  int
	format string
	save   bool
}

func newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search videos by caption text",
		Long: `Search for videos whose captions contain QUERY.

By default only the first result page is printed. Use --all to walk every page
or --limit to stop after a number of videos. --save archives the hits in the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runSearch(ctx, cmd.Flags(), opts, args[0])
		},
	}

	bindSearchFlags(cmd.Flags(), opts)

	return cmd
}

func bindRequestFlags(flags *pflag.FlagSet, opts *requestOptions) {
	flags.StringVar(&opts.channel, "channel", "", "Restrict to a channel (ID or channel URL)")
	flags.StringVar(&opts.title, "title", "", "Restrict to titles containing this text")
	flags.Int64Var(&opts.minViews, "min-views", 0, "Minimum view count")
	flags.Int64Var(&opts.maxViews, "max-views", 0, "Maximum view count")
	flags.Int64Var(&opts.minLikes, "min-likes", 0, "Minimum like count")
	flags.Int64Var(&opts.maxLikes, "max-likes", 0, "Maximum like count")
	flags.Int64Var(&opts.minDuration, "min-duration", 0, "Minimum duration in seconds")
	flags.Int64Var(&opts.maxDuration, "max-duration", 0, "Maximum duration in seconds")
	flags.StringVar(&opts.startDate, "start-date", "", "Earliest upload date (YYYY-MM-DD)")
	flags.StringVar(&opts.endDate, "end-date", "", "Latest upload date (YYYY-MM-DD)")
	flags.StringVar(&opts.license, "license", "", "License filter (any, youtube, cc)")
	flags.StringVar(&opts.sortField, "sort", "", "Sort field (viewcount, likecount, uploaddate, duration, chanrank)")
	flags.StringVar(&opts.sortOrder, "order", "", "Sort order (desc or asc)")
}

func bindSearchFlags(flags *pflag.FlagSet, opts *searchOptions) {
	bindRequestFlags(flags, &opts.requestOptions)
	flags.BoolVar(&opts.all, "all", false, "Fetch every result page")
	flags.IntVar(&opts.limit, "limit", 0, "Stop after this many videos (0 = no limit)")
	flags.StringVarP(&opts.format, "format", "f", "text", "Output format (text, json)")
	flags.BoolVar(&opts.save, "save", false, "Archive the results in the database")
}

func runSearch(ctx context.Context, flags *pflag.FlagSet, opts *searchOptions, query string) error {
	formatter, err := NewFormatter(opts.format)
	if err != nil {
		return err
	}

	factory, err := NewServiceFactory()
	if err != nil {
		return err
	}

	req, err := resolveRequest(ctx, factory, flags, &opts.requestOptions, query)
	if err != nil {
		return err
	}

	if opts.save {
		return saveSearch(ctx, factory, req, opts)
	}

	engine, err := factory.Engine()
	if err != nil {
		return err
	}

	if !opts.all && opts.limit == 0 {
		records, err := engine.Search(ctx, req)
		if err != nil {
			return err
		}
		return printRecords(formatter, records)
	}

	results, err := engine.SearchAll(ctx, req)
	if err != nil {
		return err
	}
	printed := 0
	for record, err := range results.All(ctx) {
		if err != nil {
			return err
		}
		line, err := formatter.Format(record.Model())
		if err != nil {
			return err
		}
		fmt.Println(line)
		printed++
		if opts.limit > 0 && printed >= opts.limit {
			break
		}
	}
	for _, w := range results.Warnings() {
		log.Warn().Str("warning", w.String()).Msg("Skipped malformed result")
	}
	log.Debug().Int("videos", printed).Int("pages", results.PagesFetched()).Msg("Search finished")
	return nil
}

func saveSearch(ctx context.Context, factory *ServiceFactory, req search.Request, opts *searchOptions) error {
	archive, cleanup, err := factory.CreateArchiveService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var result *youtube.SaveResult
	if !opts.all && opts.limit == 0 {
		result, err = archive.SavePage(ctx, req, 0)
	} else {
		result, err = archive.SaveSearch(ctx, req, opts.limit)
	}
	if result != nil {
		fmt.Printf("Saved %d videos for %q from %d pages\n", result.Saved, result.Query, result.Pages)
	}
	return err
}

// resolveRequest builds the request from flags and resolves --channel to a canonical ID.
// Every flag is validated before the channel lookup.
func resolveRequest(ctx context.Context, factory *ServiceFactory, flags *pflag.FlagSet, opts *requestOptions, query string) (search.Request, error) {
	req, err := buildRequest(flags, opts, query)
	if err != nil {
		return req, err
	}
	if opts.channel == "" {
		return req, nil
	}

	resolver, err := factory.Resolver()
	if err != nil {
		return req, err
	}
	id, err := channel.NewIdentity(opts.channel, resolver).ID(ctx)
	if err != nil {
		return req, fmt.Errorf("failed to resolve channel: %w", err)
	}
	req.ChannelID = id
	return req, nil
}

// buildRequest turns the request flags into a request. Range flags only apply when set.
func buildRequest(flags *pflag.FlagSet, opts *requestOptions, query string) (search.Request, error) {
	req := search.Request{Query: query}
	if err := search.ValidateQuery(query); err != nil {
		return req, err
	}

	filters := search.NewFilterSet()
	filters.SetTitle(opts.title)

	if err := filters.SetViews(changedBound(flags, "min-views", opts.minViews), changedBound(flags, "max-views", opts.maxViews)); err != nil {
		return req, err
	}
	if err := filters.SetLikes(changedBound(flags, "min-likes", opts.minLikes), changedBound(flags, "max-likes", opts.maxLikes)); err != nil {
		return req, err
	}
	if err := filters.SetDuration(changedBound(flags, "min-duration", opts.minDuration), changedBound(flags, "max-duration", opts.maxDuration)); err != nil {
		return req, err
	}

	start, err := search.ParseDate(opts.startDate)
	if err != nil {
		return req, err
	}
	end, err := search.ParseDate(opts.endDate)
	if err != nil {
		return req, err
	}
	if err := filters.SetDateRange(start, end); err != nil {
		return req, err
	}

	if opts.license != "" {
		license, err := search.ParseLicense(opts.license)
		if err != nil {
			return req, err
		}
		if err := filters.SetLicense(license); err != nil {
			return req, err
		}
	}
	if !filters.IsEmpty() {
		req.Filters = filters
	}

	if opts.sortField != "" || opts.sortOrder != "" {
		sort := search.DefaultSort
		if opts.sortField != "" {
			if sort.Field, err = search.ParseSortField(opts.sortField); err != nil {
				return req, err
			}
		}
		if opts.sortOrder != "" {
			if sort.Order, err = search.ParseSortOrder(opts.sortOrder); err != nil {
				return req, err
			}
		}
		req.Sort = &sort
	}

	return req, nil
}

func changedBound(flags *pflag.FlagSet, name string, value int64) *int64 {
	if !flags.Changed(name) {
		return nil
	}
	return search.Bound(value)
}

func printRecords(formatter Formatter, records []search.VideoRecord) error {
	for _, record := range records {
		line, err := formatter.Format(record.Model())
		if err != nil {
			return err
		}
		fmt.Println(line)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newSearchCmd())
}
