package cmd

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listonce/listonce"
)

var (
	rawParams   []string
	rawMethod   string
	envelopeAll bool
	envelopeMax int
	showRequest bool
)

// queryCmd calls any API function and prints the decoded payload
var queryCmd = &cobra.Command{
	Use:   "query <function>",
	Short: "Call an API function directly",
	Long: `Call any ListOnce API function, e.g. "get-news" or "alerts/list/", and print
the decoded payload. GET requests fail when the API reports an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(rawParams)
		if err != nil {
			return err
		}
		method := strings.ToUpper(rawMethod)
		if method != http.MethodGet && method != http.MethodPost {
			return fmt.Errorf("invalid method '%s': must be GET or POST", rawMethod)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		var payload any
		if method == http.MethodGet {
			payload, err = client.ExecuteQuery(ctx, args[0], params)
		} else {
			req := client.BuildRequest(args[0], params, method)
			if showRequest {
				fmt.Println(req)
			}
			payload, err = client.SendRequest(ctx, req)
		}
		if err != nil {
			return fmt.Errorf("query %s failed: %w", args[0], err)
		}
		return printer.Value(payload)
	},
}

// envelopeCmd uses the envelope response path with page merging
var envelopeCmd = &cobra.Command{
	Use:   "envelope <function>",
	Short: "Fetch an endpoint as a flat, optionally merged, response",
	Long: `Fetch one of the envelope endpoints and print its elements with the
page totals. With --all-pages every page is fetched in turn and merged.

Endpoints: ` + strings.Join(slices.Sorted(maps.Keys(listonce.EnvelopeEndpoints())), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, ok := listonce.EnvelopeEndpoints()[args[0]]
		if !ok {
			return fmt.Errorf("unknown envelope endpoint '%s'", args[0])
		}
		params, err := parseParams(rawParams)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		var resp *listonce.Response
		if envelopeAll {
			resp, err = client.CollectAllPages(ctx, ep, params, envelopeMax)
		} else {
			resp, err = client.QueryResponse(ctx, ep, params)
		}
		if err != nil {
			return fmt.Errorf("envelope %s failed: %w", args[0], err)
		}
		return printer.Response(resp)
	},
}

// filtersCmd lists the filters defined in the config file
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List configured filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := filters.ListFilters()
		if len(names) == 0 {
			fmt.Println("No filters configured.")
			return nil
		}
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Printf("• %-20s %s\n", name, f.Expression())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd, envelopeCmd, filtersCmd)

	for _, cmd := range []*cobra.Command{queryCmd, envelopeCmd} {
		cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "API parameter as key=value (repeatable)")
	}
	queryCmd.Flags().StringVarP(&rawMethod, "method", "X", http.MethodGet, "HTTP method (GET or POST)")
	queryCmd.Flags().BoolVar(&showRequest, "show-request", false, "print the request before sending (API key redacted)")
	envelopeCmd.Flags().BoolVar(&envelopeAll, "all-pages", false, "fetch and merge every page")
	envelopeCmd.Flags().IntVar(&envelopeMax, "max-pages", 20, "upper bound on pages fetched with --all-pages")
}
