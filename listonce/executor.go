package listonce

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Executor sends a built request and returns the raw response body.
type Executor interface {
	Execute(ctx context.Context, req *Request) ([]byte, error)
}

// Cache is an opaque key/value store consulted before each cacheable call.
// The library performs no expiry or invalidation.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// TransportExecutor executes requests over a Transport.
type TransportExecutor struct {
	transport Transport
}

// NewTransportExecutor returns an Executor backed by t.
func NewTransportExecutor(t Transport) *TransportExecutor {
	return &TransportExecutor{transport: t}
}

// Execute implements Executor.
func (e *TransportExecutor) Execute(ctx context.Context, req *Request) ([]byte, error) {
	var body []byte
	if req.Method != http.MethodGet {
		body = []byte(req.Body)
	}
	return e.transport.Send(ctx, req.Method, req.URL, req.Header(), body)
}

// CachingExecutor decorates an Executor with a Cache. Only GET requests are
// cached, keyed by Request.CacheKey, and a body is stored only once it
// decodes without an API error marker.
type CachingExecutor struct {
	next   Executor
	cache  Cache
	logger zerolog.Logger
}

// NewCachingExecutor wraps next with cache.
func NewCachingExecutor(next Executor, cache Cache, logger zerolog.Logger) *CachingExecutor {
	return &CachingExecutor{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

// Execute implements Executor.
func (e *CachingExecutor) Execute(ctx context.Context, req *Request) ([]byte, error) {
	if req.Method != http.MethodGet {
		return e.next.Execute(ctx, req)
	}

	key := req.CacheKey()
	if body, ok, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn().Err(err).Str("function", req.Function).Msg("Cache lookup failed")
	} else if ok {
		e.logger.Debug().Str("function", req.Function).Msg("Serving ListOnce response from cache")
		return body, nil
	}

	body, err := e.next.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if cacheable(body) {
		if err := e.cache.Set(ctx, key, body); err != nil {
			e.logger.Warn().Err(err).Str("function", req.Function).Msg("Cache store failed")
		}
	}
	return body, nil
}

func cacheable(body []byte) bool {
	payload, err := Parse(body)
	if err != nil {
		return false
	}
	return checkErrorMarkers(payload) == nil
}
