package listonce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// GetListing retrieves the details of a single listing.
func (c *Client) GetListing(ctx context.Context, listingID int) (*Entity, error) {
	req := c.BuildRequest("get-listing", url.Values{
		"listing_id": {strconv.Itoa(listingID)},
	}, http.MethodGet)
	return c.RequestEntity(ctx, req, "Listing")
}

// SearchListings returns the listings matching query.
func (c *Client) SearchListings(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("search-listings", query, http.MethodGet), "Listing")
}

// SearchInspectionTimes returns inspection times for the listings matching query.
func (c *Client) SearchInspectionTimes(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("search-inspection-times", query, http.MethodGet), "InspectionTime")
}

// SearchAuctions returns auction dates and times.
func (c *Client) SearchAuctions(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("search-auctions", query, http.MethodGet), "Auction")
}

// GetSuburbs returns the distinct suburbs with at least one listing.
func (c *Client) GetSuburbs(ctx context.Context) (any, error) {
	return c.requestRaw(ctx, c.BuildRequest("get-suburbs", nil, http.MethodGet))
}

// GetOffices returns the current details for the offices matching query.
func (c *Client) GetOffices(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("get-office", query, http.MethodGet), "Office")
}

// GetOffice returns the details of one office.
func (c *Client) GetOffice(ctx context.Context, clientID int) (*Entity, error) {
	req := c.BuildRequest("get-office", url.Values{
		"client_id": {strconv.Itoa(clientID)},
	}, http.MethodGet)
	return c.RequestEntity(ctx, req, "Office")
}

// GetAgents returns the listing agents for a group or client.
func (c *Client) GetAgents(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("get-agents", query, http.MethodGet), "Agent")
}

// GetNews returns the news articles published by an office.
func (c *Client) GetNews(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("get-news", query, http.MethodGet), "News")
}

// GetTestimonials returns testimonials.
func (c *Client) GetTestimonials(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("get-testimonials", query, http.MethodGet), "Testimonial")
}

// GetFeaturedListings returns the featured listings.
func (c *Client) GetFeaturedListings(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("get-featured-listings", query, http.MethodGet), "FeaturedListing")
}

// GetInteractiveFloorplans returns the floorplans for a property.
func (c *Client) GetInteractiveFloorplans(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("get-interactive-floorplans", query, http.MethodGet), "Floorplan")
}

// GetExternalLinks returns the external links for a property.
func (c *Client) GetExternalLinks(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("external-links", query, http.MethodGet), "ExternalLink")
}

// GetCategories returns the categories which contain listings. The endpoint
// is undocumented, so the payload is returned as decoded.
func (c *Client) GetCategories(ctx context.Context) (any, error) {
	return c.requestRaw(ctx, c.BuildRequest("get-categories", nil, http.MethodGet))
}
