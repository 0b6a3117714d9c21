package listonce

import "time"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL   string
	http      HTTPConfig
	transport Transport
	cache     Cache
	registry  *Registry
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:  DefaultBaseURL,
		http:     DefaultHTTPConfig(),
		registry: DefaultRegistry(),
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.http.Timeout = timeout
	}
}

// WithMaxRetries sets the maximum number of retry attempts. The default of
// zero sends every request once.
func WithMaxRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.http.MaxRetries = retries
		}
	}
}

// WithRateLimit limits outgoing requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *clientOptions) {
		o.http.RateLimit = perSecond
		o.http.Burst = burst
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.http.UserAgent = userAgent
	}
}

// WithMaxBodySize bounds the size of response bodies.
func WithMaxBodySize(n int64) Option {
	return func(o *clientOptions) {
		o.http.MaxBodySize = n
	}
}

// WithTransport replaces the HTTP transport. The HTTP options above are
// ignored when a transport is supplied.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithCache consults cache before every GET request.
func WithCache(cache Cache) Option {
	return func(o *clientOptions) {
		o.cache = cache
	}
}

// WithRegistry replaces the variant registry.
func WithRegistry(r *Registry) Option {
	return func(o *clientOptions) {
		if r != nil {
			o.registry = r
		}
	}
}
