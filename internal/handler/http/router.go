package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/storefront"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "storefront"

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	// CatalogMaxAge is the Cache-Control max-age for catalog reads; 0
	// disables the header.
	CatalogMaxAge int
	// RateLimitRPS and RateLimitBurst bound requests per client IP on the
	// API routes; a zero rate disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultRouterConfig returns development defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORS:           middleware.DefaultCORSConfig(),
		RequestTimeout: 30 * time.Second,
		CatalogMaxAge:  60,
	}
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *storefront.Service,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	h := NewHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		r.Use(middleware.Session())
		r.Use(middleware.RequestLogger(logger))
		r.Use(ContentTypeJSON)
		r.Use(LimitBody)

		r.Group(func(r chi.Router) {
			if cfg.CatalogMaxAge > 0 {
				r.Use(middleware.CacheControl(cfg.CatalogMaxAge))
			}
			r.Get("/catalog", h.GetCatalog)
			r.Get("/home", h.GetHome)
			r.Get("/products/{id}", h.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Get("/badge", h.GetBadge)
			r.Post("/checkout", h.Checkout)

			r.Post("/items", h.AddItem)
			r.Put("/items/{id}", h.UpdateItemQuantity)
			r.Delete("/items/{id}", h.RemoveItem)
		})

		r.Route("/forms", func(r chi.Router) {
			r.Post("/contact", h.SubmitContact)
			r.Post("/login", h.SubmitLogin)
			r.Post("/review", h.SubmitReview)
		})
	})

	return r
}
