package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listonce/listonce"
)

var (
	searchParams []string
	filterExpr   string
	page         int
	allPages     bool
	maxPages     int
)

// listingCmd represents the listing command
var listingCmd = &cobra.Command{
	Use:   "listing <listing-id>",
	Short: "Show a single listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("listing id", args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		listing, err := client.GetListing(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get listing %d: %w", id, err)
		}
		return printer.Entity(listing)
	},
}

// searchCmd groups the paginated search endpoints
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search listings, inspection times and auctions",
	Long: `Search the paginated ListOnce endpoints. API parameters are passed with
--param key=value and results can be narrowed with --filter, which accepts a
filter expression or the name of a filter from the config file.`,
}

// searchTarget binds a search subcommand to its client call and envelope.
type searchTarget struct {
	use      string
	short    string
	dataType string
	envelope listonce.EnvelopeEndpoint
	search   func(ctx context.Context, query url.Values) (*listonce.Collection, error)
}

func searchTargets() []searchTarget {
	return []searchTarget{
		{
			use:      "listings",
			short:    "Search property listings",
			dataType: "Listing",
			envelope: listonce.EnvelopeSearchListings,
			search:   func(ctx context.Context, q url.Values) (*listonce.Collection, error) { return client.SearchListings(ctx, q) },
		},
		{
			use:      "inspections",
			short:    "Search upcoming inspection times",
			dataType: "InspectionTime",
			envelope: listonce.EnvelopeInspectionTimes,
			search:   func(ctx context.Context, q url.Values) (*listonce.Collection, error) { return client.SearchInspectionTimes(ctx, q) },
		},
		{
			use:      "auctions",
			short:    "Search upcoming auctions",
			dataType: "Auction",
			envelope: listonce.EnvelopeAuctions,
			search:   func(ctx context.Context, q url.Values) (*listonce.Collection, error) { return client.SearchAuctions(ctx, q) },
		},
	}
}

func init() {
	rootCmd.AddCommand(listingCmd)
	rootCmd.AddCommand(searchCmd)

	for _, target := range searchTargets() {
		cmd := &cobra.Command{
			Use:   target.use,
			Short: target.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSearch(cmd, target)
			},
		}
		cmd.Flags().StringArrayVarP(&searchParams, "param", "p", nil, "API parameter as key=value (repeatable)")
		cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or configured filter name")
		cmd.Flags().IntVar(&page, "page", 0, "page to fetch")
		cmd.Flags().BoolVar(&allPages, "all-pages", false, "fetch every page and merge the results")
		cmd.Flags().IntVar(&maxPages, "max-pages", 20, "upper bound on pages fetched with --all-pages")
		searchCmd.AddCommand(cmd)
	}
}

func runSearch(cmd *cobra.Command, target searchTarget) error {
	params, err := parseParams(searchParams)
	if err != nil {
		return err
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	logger.Info().Str("endpoint", target.envelope.Function).Str("filter", filterExpr).Msg("Searching")

	if allPages {
		return runSearchAllPages(ctx, target, params)
	}

	collection, err := target.search(ctx, params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if filterExpr == "" {
		return printer.Collection(collection)
	}

	entities, err := collection.Entities()
	if err != nil {
		return err
	}
	matches, err := selectEntities(ctx, filterExpr, entities)
	if err != nil {
		return err
	}

	pagination, err := collection.Pagination()
	if err != nil {
		return err
	}
	return printer.Entities(collection.DataType(), matches, &pagination)
}

func runSearchAllPages(ctx context.Context, target searchTarget, params url.Values) error {
	params.Del("page")

	merged, err := client.CollectAllPages(ctx, target.envelope, params, maxPages)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if filterExpr == "" {
		return printer.Response(merged)
	}

	entities := make([]*listonce.Entity, 0, merged.Len())
	for _, element := range merged.All() {
		e, err := client.Registry().MakeEntity(element, nil, target.dataType)
		if err != nil {
			return err
		}
		entities = append(entities, e)
	}

	matches, err := selectEntities(ctx, filterExpr, entities)
	if err != nil {
		return err
	}

	pagination := listonce.Pagination{
		CurrentPage:   merged.CurrentPage(),
		TotalPages:    merged.TotalPages(),
		TotalEntities: merged.TotalObjects(),
	}
	return printer.Entities(target.dataType, matches, &pagination)
}
