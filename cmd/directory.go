package cmd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listonce/listonce"
)

var (
	directoryParams []string
	directoryFilter string
)

// collectionTarget binds a collection command to its client call.
type collectionTarget struct {
	use   string
	short string
	fetch func(ctx context.Context, query url.Values) (*listonce.Collection, error)
}

func collectionTargets() []collectionTarget {
	return []collectionTarget{
		{"offices", "List offices", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetOffices(ctx, q)
		}},
		{"agents", "List agents", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetAgents(ctx, q)
		}},
		{"news", "List news articles", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetNews(ctx, q)
		}},
		{"testimonials", "List testimonials", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetTestimonials(ctx, q)
		}},
		{"featured", "List featured listings", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetFeaturedListings(ctx, q)
		}},
		{"floorplans", "List interactive floorplans", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetInteractiveFloorplans(ctx, q)
		}},
		{"links", "List external links", func(ctx context.Context, q url.Values) (*listonce.Collection, error) {
			return client.GetExternalLinks(ctx, q)
		}},
	}
}

// officeCmd represents the office command
var officeCmd = &cobra.Command{
	Use:   "office <client-id>",
	Short: "Show a single office",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("client id", args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		office, err := client.GetOffice(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get office %d: %w", id, err)
		}
		return printer.Entity(office)
	},
}

// suburbsCmd represents the suburbs command
var suburbsCmd = &cobra.Command{
	Use:   "suburbs",
	Short: "List suburbs with listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		suburbs, err := client.GetSuburbs(ctx)
		if err != nil {
			return fmt.Errorf("failed to get suburbs: %w", err)
		}
		return printer.Value(suburbs)
	},
}

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List listing categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		categories, err := client.GetCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to get categories: %w", err)
		}
		return printer.Value(categories)
	},
}

func init() {
	rootCmd.AddCommand(officeCmd)
	rootCmd.AddCommand(suburbsCmd)
	rootCmd.AddCommand(categoriesCmd)

	for _, target := range collectionTargets() {
		cmd := &cobra.Command{
			Use:   target.use,
			Short: target.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCollection(cmd, target)
			},
		}
		cmd.Flags().StringArrayVarP(&directoryParams, "param", "p", nil, "API parameter as key=value (repeatable)")
		cmd.Flags().StringVarP(&directoryFilter, "filter", "f", "", "filter expression or configured filter name")
		rootCmd.AddCommand(cmd)
	}
}

func runCollection(cmd *cobra.Command, target collectionTarget) error {
	params, err := parseParams(directoryParams)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	collection, err := target.fetch(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", target.use, err)
	}

	if directoryFilter == "" {
		return printer.Collection(collection)
	}

	entities, err := collection.Entities()
	if err != nil {
		return err
	}
	matches, err := selectEntities(ctx, directoryFilter, entities)
	if err != nil {
		return err
	}
	return printer.Entities(collection.DataType(), matches, nil)
}
