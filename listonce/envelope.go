package listonce

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// EnvelopeEndpoint describes how a function's payload maps onto a Response.
// An empty DataField makes the whole payload the single element.
type EnvelopeEndpoint struct {
	Function  string
	DataField string
	DataType  string
	// Paginated endpoints accept a page parameter.
	Paginated bool
}

// Envelope endpoints known to the API.
var (
	EnvelopeListing              = EnvelopeEndpoint{Function: "get-listing", DataType: "listing"}
	EnvelopeSearchListings       = EnvelopeEndpoint{Function: "search-listings", DataField: "listings", DataType: "listing", Paginated: true}
	EnvelopeInspectionTimes      = EnvelopeEndpoint{Function: "search-inspection-times", DataField: "inspection_times", DataType: "inspection-time", Paginated: true}
	EnvelopeAuctions             = EnvelopeEndpoint{Function: "search-auctions", DataField: "auctions", DataType: "auction", Paginated: true}
	EnvelopeSuburbs              = EnvelopeEndpoint{Function: "get-suburbs", DataType: "suburb"}
	EnvelopeOffice               = EnvelopeEndpoint{Function: "get-office", DataType: "office"}
	EnvelopeAgents               = EnvelopeEndpoint{Function: "get-agents", DataField: "agents", DataType: "agent"}
	EnvelopeNews                 = EnvelopeEndpoint{Function: "get-news", DataType: "news"}
	EnvelopeTestimonials         = EnvelopeEndpoint{Function: "get-testimonials", DataType: "testimonial"}
	EnvelopeFeaturedListings     = EnvelopeEndpoint{Function: "get-featured-listings", DataField: "featured_listings", DataType: "listing", Paginated: true}
	EnvelopeInteractiveFloorplan = EnvelopeEndpoint{Function: "get-interactive-floorplans", DataField: "floorplans", DataType: "floorplan"}
)

// EnvelopeEndpoints returns every known envelope endpoint keyed by function.
func EnvelopeEndpoints() map[string]EnvelopeEndpoint {
	out := make(map[string]EnvelopeEndpoint)
	for _, ep := range []EnvelopeEndpoint{
		EnvelopeListing,
		EnvelopeSearchListings,
		EnvelopeInspectionTimes,
		EnvelopeAuctions,
		EnvelopeSuburbs,
		EnvelopeOffice,
		EnvelopeAgents,
		EnvelopeNews,
		EnvelopeTestimonials,
		EnvelopeFeaturedListings,
		EnvelopeInteractiveFloorplan,
	} {
		out[ep.Function] = ep
	}
	return out
}

// QueryResponse runs the strict query for ep and wraps the payload.
func (c *Client) QueryResponse(ctx context.Context, ep EnvelopeEndpoint, params url.Values) (*Response, error) {
	payload, err := c.ExecuteQuery(ctx, ep.Function, params)
	if err != nil {
		return nil, err
	}
	return NewResponse(payload, ep.DataField, ep.DataType), nil
}

// CollectAllPages fetches page 1 of ep and then every following page in
// order, merging them into one Response. maxPages bounds the walk; zero or
// less fetches every page the API reports. TotalObjects of the result is the
// total reported by page 1, or the number of collected elements when the API
// reports none.
func (c *Client) CollectAllPages(ctx context.Context, ep EnvelopeEndpoint, params url.Values, maxPages int) (*Response, error) {
	if !ep.Paginated {
		return c.QueryResponse(ctx, ep, params)
	}

	page := func(n int) (*Response, error) {
		p := cloneValues(params)
		p.Set("page", strconv.Itoa(n))
		return c.QueryResponse(ctx, ep, p)
	}

	merged, err := page(1)
	if err != nil {
		return nil, err
	}
	reported, hasTotal := merged.TotalObjects(), merged.totalReported

	last := merged.TotalPages()
	if maxPages > 0 && last > maxPages {
		last = maxPages
	}

	for n := 2; n <= last; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.logger.Debug().
			Str("function", ep.Function).
			Int("page", n).
			Int("total_pages", last).
			Msg("Fetching page")

		next, err := page(n)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		if err := merged.Merge(next); err != nil {
			return nil, err
		}
	}

	// every page repeats the grand total, so Merge's sum overcounts
	merged.totalObjects = merged.Len()
	if hasTotal {
		merged.totalObjects = reported
	}
	merged.totalReported = hasTotal
	return merged, nil
}
