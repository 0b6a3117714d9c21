package listonce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Enquiry holds the sender fields shared by the contact operations.
type Enquiry struct {
	Name      string
	FromEmail string
	Message   string
}

func (e Enquiry) values() url.Values {
	return url.Values{
		"name":       {e.Name},
		"from_email": {e.FromEmail},
		"message":    {e.Message},
	}
}

// EmailFriend sends a listing from one user to another through ListOnce so
// the statistics are recorded.
func (c *Client) EmailFriend(ctx context.Context, listingID int, fromEmail, toEmail, subject, message string, query url.Values) (any, error) {
	params := withRequired(query, url.Values{
		"listing_id": {strconv.Itoa(listingID)},
		"from_email": {fromEmail},
		"to_email":   {toEmail},
		"subject":    {subject},
		"message":    {message},
	})
	return c.requestRaw(ctx, c.BuildRequest("email-a-friend", params, http.MethodPost))
}

// ContactAgentListing emails the listing agent or office about a listing.
func (c *Client) ContactAgentListing(ctx context.Context, listingID int, enquiry Enquiry, query url.Values) (any, error) {
	required := enquiry.values()
	required.Set("listing_id", strconv.Itoa(listingID))
	return c.requestRaw(ctx, c.BuildRequest("contact-enquiry", withRequired(query, required), http.MethodPost))
}

// ContactAgent emails the agent of a listing directly.
func (c *Client) ContactAgent(ctx context.Context, listingID int, enquiry Enquiry, query url.Values) (any, error) {
	required := enquiry.values()
	required.Set("listing_id", strconv.Itoa(listingID))
	return c.requestRaw(ctx, c.BuildRequest("agent-contact-enquiry", withRequired(query, required), http.MethodPost))
}

// ContactOffice emails an office directly.
func (c *Client) ContactOffice(ctx context.Context, clientID int, enquiry Enquiry, query url.Values) (any, error) {
	required := enquiry.values()
	required.Set("client_id", strconv.Itoa(clientID))
	return c.requestRaw(ctx, c.BuildRequest("office-contact-enquiry", withRequired(query, required), http.MethodPost))
}
