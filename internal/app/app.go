package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog/source"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/internal/storage/memory"
	redisstore "github.com/utafrali/storefront/internal/storage/redis"
	"github.com/utafrali/storefront/internal/storefront"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	startupTimeout     = 15 * time.Second
	shutdownTimeout    = 10 * time.Second
	slowRedisThreshold = 50 * time.Millisecond
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// Metrics are registered with the default Prometheus registry.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	return newApp(cfg, logger, prometheus.DefaultRegisterer)
}

func newApp(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tcfg := tracing.DefaultConfig(handler.ServiceName)
	tcfg.Environment = cfg.Environment
	tcfg.Enabled = cfg.TracingEnabled
	tcfg.OTLPEndpoint = cfg.OTLPEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	shutdown, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracerShutdown = shutdown

	healthHandler := health.NewHandler()

	port, err := a.initStorage(ctx, reg, healthHandler)
	if err != nil {
		a.close()
		return nil, err
	}

	listeners := []cart.Listener{cart.NewMetricsListener(reg)}
	if cfg.EventsEnabled() {
		pcfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		// Cart mutations must not wait on the broker.
		pcfg.Async = true
		a.producer = pkgkafka.NewProducer(pcfg, logger)
		listeners = append(listeners, event.NewProducer(a.producer, logger))
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	carts := cart.NewStore(port, logger, listeners...)

	src := a.newSource(source.WithMetrics(source.NewMetrics(reg)))
	healthHandler.RegisterNonCritical("catalog", func(ctx context.Context) error {
		_, err := src.Products(ctx)
		return err
	})

	svc := storefront.NewService(src, carts, logger, storefront.WithPageSize(cfg.CatalogPageSize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(svc, healthHandler, logger, handler.RouterConfig{
		CORS:           corsCfg,
		RequestTimeout: cfg.RequestTimeout(),
		CatalogMaxAge:  cfg.CatalogCacheSeconds,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// initStorage builds the storage port for cart records.
func (a *App) initStorage(ctx context.Context, reg prometheus.Registerer, hh *health.Handler) (storage.Port, error) {
	if a.cfg.StorageBackend != config.StorageRedis {
		a.logger.Info("using in-memory cart storage")
		return memory.New(), nil
	}

	rcfg := database.DefaultRedisConfig()
	rcfg.Addr = a.cfg.RedisAddr
	rcfg.Password = a.cfg.RedisPass
	rcfg.DB = a.cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, rcfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.rdb = rdb

	rdb.AddHook(database.NewTracingHook(slowRedisThreshold, a.logger))
	if err := database.RegisterPoolMetrics(reg, rdb, handler.ServiceName); err != nil {
		return nil, fmt.Errorf("register redis pool metrics: %w", err)
	}
	hh.RegisterCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	a.logger.Info("connected to Redis",
		slog.String("addr", rcfg.Addr),
		slog.Int("db", rcfg.DB),
		slog.Duration("cart_ttl", a.cfg.CartTTLDuration()),
	)
	return redisstore.New(rdb, a.cfg.CartTTLDuration()), nil
}

func (a *App) newSource(opts ...source.Option) source.Source {
	if a.cfg.CatalogURL != "" {
		a.logger.Info("catalog source", slog.String("url", a.cfg.CatalogURL))
		return source.NewHTTPSource(a.cfg.CatalogURL, a.cfg.CatalogTimeout(), a.logger, opts...)
	}
	a.logger.Info("catalog source", slog.String("file", a.cfg.CatalogFile))
	return source.NewFileSource(a.cfg.CatalogFile, a.logger, opts...)
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.close()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.close()
	a.logger.Info("application shutdown complete")
	return nil
}

// close releases everything except the HTTP server.
func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
		a.producer = nil
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
		a.rdb = nil
	}

	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
		a.tracerShutdown = nil
	}
}
