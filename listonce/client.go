package listonce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a ListOnce API client
type Client struct {
	baseURL  string
	apiKey   string
	executor Executor
	registry *Registry
	logger   zerolog.Logger
}

// NewClient creates a new ListOnce client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: listonce API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(o.baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: listonce base URL is required", ErrInvalidConfig)
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, o.baseURL)
	}

	transport := o.transport
	if transport == nil {
		transport = NewHTTPTransport(o.http, logger)
	}

	var executor Executor = NewTransportExecutor(transport)
	if o.cache != nil {
		executor = NewCachingExecutor(executor, o.cache, logger)
	}

	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		executor: executor,
		registry: o.registry,
		logger:   logger,
	}, nil
}

// Registry returns the variant registry used to wrap responses.
func (c *Client) Registry() *Registry {
	return c.registry
}

// BuildRequest builds a request for function. An empty method means GET.
func (c *Client) BuildRequest(function string, params url.Values, method string) *Request {
	return buildRequest(c.baseURL, c.apiKey, function, params, method)
}

// SendRequest executes req and decodes the body. API error markers are left
// for the caller to inspect.
func (c *Client) SendRequest(ctx context.Context, req *Request) (any, error) {
	body, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// ExecuteQuery issues a GET for function and fails with *APIError when the
// response carries an error_message.
func (c *Client) ExecuteQuery(ctx context.Context, function string, params url.Values) (any, error) {
	req := c.BuildRequest(function, params, http.MethodGet)
	body, err := c.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseStrict(body)
}

// RequestEntity executes req and wraps the payload as a single entity.
func (c *Client) RequestEntity(ctx context.Context, req *Request, dataType string) (*Entity, error) {
	payload, err := c.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.registry.MakeEntity(payload, req, dataType)
}

// RequestCollection executes req and wraps the payload as a collection.
func (c *Client) RequestCollection(ctx context.Context, req *Request, dataType string) (*Collection, error) {
	payload, err := c.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.registry.MakeCollection(payload, req, dataType)
}

// requestRaw executes req and returns the decoded payload once it passes the
// error marker check.
func (c *Client) requestRaw(ctx context.Context, req *Request) (any, error) {
	payload, err := c.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := checkErrorMarkers(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// TestConnection checks that the API is reachable and accepts the key.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.ExecuteQuery(ctx, "get-categories", nil); err != nil {
		return err
	}

	c.logger.Debug().Msg("Successfully connected to ListOnce")
	return nil
}
