package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// HTTPSource fetches the catalog document from a URL. It never retries; the
// circuit breaker only makes repeated failures fail fast.
type HTTPSource struct {
	client  *httpclient.CircuitBreakerClient
	url     string
	logger  *slog.Logger
	metrics *Metrics
}

// NewHTTPSource creates a source for url with a fresh breaker.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger, opts ...Option) *HTTPSource {
	cfg := httpclient.DefaultConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	return NewHTTPSourceWithClient(client, url, logger, opts...)
}

// NewHTTPSourceWithClient creates a source using an existing breaker client.
func NewHTTPSourceWithClient(client *httpclient.CircuitBreakerClient, url string, logger *slog.Logger, opts ...Option) *HTTPSource {
	o := applyOptions(opts)
	return &HTTPSource{
		client:  client,
		url:     url,
		logger:  logger,
		metrics: o.metrics,
	}
}

// Products fetches and decodes the collection.
func (s *HTTPSource) Products(ctx context.Context) (products []domain.Product, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("http", start, err) }()

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}

	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, s.unavailable(ctx, httpclient.ParseResponseError(resp, "catalog"))
	}
	defer func() { _ = resp.Body.Close() }()

	products, err = Decode(resp.Body)
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}

	s.logger.DebugContext(ctx, "catalog fetched",
		slog.String("url", s.url),
		slog.Int("products", len(products)),
		slog.Duration("took", time.Since(start)),
	)
	return products, nil
}

func (s *HTTPSource) unavailable(ctx context.Context, cause error) error {
	s.logger.ErrorContext(ctx, "failed to load catalog products",
		slog.String("url", s.url),
		slog.String("error", cause.Error()),
	)
	return apperrors.Unavailable("catalog", fmt.Errorf("fetch %s: %w", s.url, cause))
}
