package listonce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetAlertList returns the alert subscribers for a group.
func (c *Client) GetAlertList(ctx context.Context, query url.Values) (*Collection, error) {
	return c.RequestCollection(ctx, c.BuildRequest("alerts/list/", query, http.MethodGet), "Alert")
}

// GetAlertDetails returns the details of one subscription.
func (c *Client) GetAlertDetails(ctx context.Context, alertID int) (*Entity, error) {
	req := c.BuildRequest(fmt.Sprintf("alerts/details/%d/", alertID), nil, http.MethodGet)
	return c.RequestEntity(ctx, req, "Alert")
}

// AlertSubscribe creates a subscription for email. The search criteria are
// sent as a single pre-encoded value.
func (c *Client) AlertSubscribe(ctx context.Context, email string, search, query url.Values) (any, error) {
	params := withRequired(query, url.Values{
		"email_address":   {email},
		"search_criteria": {search.Encode()},
	})
	return c.requestRaw(ctx, c.BuildRequest("alerts/subscribe/", params, http.MethodPost))
}

// AlertUpdate replaces the search criteria of an existing alert.
func (c *Client) AlertUpdate(ctx context.Context, alertID int, search, query url.Values) (any, error) {
	params := withRequired(query, url.Values{
		"alert_id":        {strconv.Itoa(alertID)},
		"search_criteria": {search.Encode()},
	})
	return c.requestRaw(ctx, c.BuildRequest("alerts/update/", params, http.MethodPost))
}

// AlertUnsubscribe removes an alert.
func (c *Client) AlertUnsubscribe(ctx context.Context, alertID int) (any, error) {
	params := url.Values{"alert_id": {strconv.Itoa(alertID)}}
	return c.requestRaw(ctx, c.BuildRequest("alerts/unsubscribe/", params, http.MethodPost))
}
