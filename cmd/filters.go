package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// filtersOptions holds the filters command flags
type filtersOptions struct {
	requestOptions
	full bool
}

func newFiltersCmd() *cobra.Command {
	opts := &filtersOptions{}

	cmd := &cobra.Command{
		Use:   "filters [QUERY]",
		Short: "Show available search filters",
		Long: `Fetch the first result page for QUERY and print the filters it offers.

Accepts the same channel, filter and sort flags as search. By default a
filter name -> allowed values summary is printed. Use --full for the complete
control descriptions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			factory, err := NewServiceFactory()
			if err != nil {
				return err
			}

			req, err := resolveRequest(ctx, factory, cmd.Flags(), &opts.requestOptions, args[0])
			if err != nil {
				return err
			}

			engine, err := factory.Engine()
			if err != nil {
				return err
			}

			options, err := engine.GetFilters(ctx, req)
			if err != nil {
				return err
			}

			if opts.full {
				return printJSON(options)
			}
			return printJSON(options.Domains())
		},
	}

	bindRequestFlags(cmd.Flags(), &opts.requestOptions)
	cmd.Flags().BoolVar(&opts.full, "full", false, "Print the full filter control descriptions")

	return cmd
}

func init() {
	rootCmd.AddCommand(newFiltersCmd())
}
