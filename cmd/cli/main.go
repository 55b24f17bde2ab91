// Package main implements the mukrindo CLI for querying a catalog offline.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/dsjohal14/mukrindo/internal/libs/config"
	"github.com/dsjohal14/mukrindo/internal/libs/obs"
	"github.com/dsjohal14/mukrindo/internal/scope/db"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/spf13/cobra"
)

type options struct {
	catalog     string
	databaseURL string
	fields      []string

	filters search.Filters
	sort    string
	page    int
	size    int
	viewed  []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "mukrindo",
		Short:        "Search and suggest over a car listing catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			obs.InitLogger(cfg.LogLevel)
			if opts.catalog == "" {
				opts.catalog = cfg.CatalogFile
			}
			if opts.databaseURL == "" {
				opts.databaseURL = cfg.DatabaseURL
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "JSONL catalog file (default $CATALOG_FILE)")
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "read the catalog from Postgres instead (default $DATABASE_URL)")
	root.PersistentFlags().StringSliceVar(&opts.fields, "fields", nil, "product fields matched by the query")

	root.AddCommand(newSearchCmd(opts), newSuggestCmd(opts), newExportCmd(opts))
	return root
}

func newSearchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Filter and sort the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, products, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			viewed, err := parseViewed(opts.viewed)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			mode := search.ParseSortMode(opts.sort, search.SortRecommendation)
			results := engine.Process(products, query, opts.filters, mode, viewed)
			if opts.page < 1 {
				opts.page = 1
			}
			page := search.Paginate(results, opts.page-1, opts.size)

			out := struct {
				Products   []*search.Product `json:"products"`
				Total      int               `json:"total"`
				Page       int               `json:"page"`
				TotalPages int               `json:"totalPages"`
				Sort       search.SortMode   `json:"sort"`
				Suggestion string            `json:"suggestion,omitempty"`
			}{page.Items, page.Total, opts.page, page.TotalPages, mode, ""}
			if s, ok := engine.Suggest(products, query, len(results), false); ok {
				out.Suggestion = s
			}
			return printJSON(cmd, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.filters.Brand, "brand", "", "brand filter")
	f.StringVar(&opts.filters.Model, "model", "", "model filter")
	f.StringVar(&opts.filters.Type, "type", "", "body type filter")
	f.StringVar(&opts.filters.Transmission, "transmission", "", "transmission filter")
	f.StringVar(&opts.filters.FuelType, "fuel", "", "fuel type filter")
	f.StringVar(&opts.filters.YearMin, "year-min", "", "minimum year of assembly")
	f.StringVar(&opts.filters.YearMax, "year-max", "", "maximum year of assembly")
	f.StringVar(&opts.filters.PriceMin, "price-min", "", "minimum price")
	f.StringVar(&opts.filters.PriceMax, "price-max", "", "maximum price")
	f.StringVar(&opts.sort, "sort", string(search.SortRecommendation), "sort mode")
	f.IntVar(&opts.page, "page", 1, "page number")
	f.IntVar(&opts.size, "size", search.DefaultPageSize, "page size")
	f.StringSliceVar(&opts.viewed, "viewed", nil, "recently viewed brand:model pairs, most recent first")
	return cmd
}

func newSuggestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "Print a \"did you mean\" suggestion for a query with no results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, products, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			results := engine.Process(products, args[0], search.Filters{}, search.SortLatest, nil)
			if s, ok := engine.Suggest(products, args[0], len(results), false); ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as JSONL, e.g. to snapshot Postgres for offline use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, products, err := load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := db.WriteJSONL(out, products); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d products to %s\n", len(products), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "catalog.jsonl", "output file")
	return cmd
}

func load(ctx context.Context, opts *options) (*search.Engine, []*search.Product, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	searchOpts := search.DefaultOptions()
	if len(opts.fields) > 0 {
		keys, err := search.ParseFieldKeys(opts.fields)
		if err != nil {
			return nil, nil, err
		}
		searchOpts.SearchFields = keys
	}
	engine, err := search.New(searchOpts)
	if err != nil {
		return nil, nil, err
	}

	src, err := db.OpenSource(ctx, opts.databaseURL, opts.catalog)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = src.Close() }()

	products, err := src.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine, products, nil
}

func parseViewed(pairs []string) ([]search.ViewedItem, error) {
	viewed := make([]search.ViewedItem, 0, len(pairs))
	for _, pair := range pairs {
		brand, model, ok := strings.Cut(pair, ":")
		if !ok || brand == "" {
			return nil, fmt.Errorf("invalid --viewed value %q, want brand:model", pair)
		}
		viewed = append(viewed, search.ViewedItem{Brand: brand, Model: model})
	}
	return viewed, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := sonic.ConfigDefault.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
