package listonce

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultMaxBodySize bounds the response bodies read by HTTPTransport.
const DefaultMaxBodySize = 4 << 20

// Transport performs one HTTP exchange and returns the raw response body.
// Any failure, including a non-2xx status, is final for the call.
type Transport interface {
	Send(ctx context.Context, method, rawURL string, header http.Header, body []byte) ([]byte, error)
}

// HTTPConfig configures HTTPTransport.
type HTTPConfig struct {
	Timeout time.Duration
	// MaxRetries is passed to the retrying client. Zero sends each request
	// exactly once.
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit is the permitted requests per second. Zero disables limiting.
	RateLimit   float64
	Burst       int
	UserAgent   string
	MaxBodySize int64
}

// DefaultHTTPConfig returns the transport defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:      30 * time.Second,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 900 * time.Millisecond,
		Burst:        1,
		UserAgent:    "listonce-go",
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// HTTPTransport is the default Transport, built on go-retryablehttp.
type HTTPTransport struct {
	client      *retryablehttp.Client
	limiter     *rate.Limiter
	userAgent   string
	maxBodySize int64
	logger      zerolog.Logger
}

// NewHTTPTransport creates an HTTPTransport from cfg.
func NewHTTPTransport(cfg HTTPConfig, logger zerolog.Logger) *HTTPTransport {
	rc := retryablehttp.NewClient()
	rc.RetryMax = max(cfg.MaxRetries, 0)
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.Logger = retryLogger{logger: logger}
	// Hand non-2xx responses back so they surface as *StatusError.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	t := &HTTPTransport{
		client:      rc,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
		logger:      logger,
	}
	if t.maxBodySize <= 0 {
		t.maxBodySize = DefaultMaxBodySize
	}
	if cfg.RateLimit > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}
	return t
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, method, rawURL string, header http.Header, body []byte) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var rawBody any
	if body != nil {
		rawBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	t.logger.Debug().
		Str("method", method).
		Str("url", redactURL(rawURL)).
		Msg("Making ListOnce API request")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	b, err := readAllLimit(resp.Body, t.maxBodySize)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	t.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(b)).
		Msg("Received ListOnce API response")

	return b, nil
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return b, nil
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger.
type retryLogger struct {
	logger zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
