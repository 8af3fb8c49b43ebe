package http

import (
	"fmt"
	"net/http"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/architeacher/records/services/svc-records/internal/usecases"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	baseURL = "/v1"
)

type RouterConfig struct {
	App            *usecases.Application
	Logger         logger.Logger
	MetricsClient  metrics.Client
	TracerProvider trace.TracerProvider
	// RateLimitStore shares quotas across replicas. An in-memory store is
	// used when it is nil.
	RateLimitStore throttled.GCRAStoreCtx
	Config         *config.ServiceConfig
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))

	if cfg.Config.Telemetry.Metrics.Enabled {
		router.Use(middleware.Metrics(cfg.MetricsClient))
		cfg.Logger.Info().Msg("HTTP metrics collection enabled")
	}

	if cfg.Config.Logging.AccessLog.Enabled {
		router.Use(middleware.AccessLogger(cfg.Logger, cfg.Config.Logging.AccessLog.LogHealthChecks))
	}

	if cfg.Config.RateLimiting.Enabled {
		if limit, err := rateLimiter(cfg); err != nil {
			cfg.Logger.Error().Err(err).Msg("rate limiting disabled")
		} else {
			router.Use(limit)
		}
	}

	if cfg.Config.Compression.Enabled {
		router.Use(middleware.Compression(cfg.Config.Compression, cfg.MetricsClient))
	}

	if cfg.Config.HTTPServer.ETagEnabled {
		router.Use(middleware.ConditionalGET())
	}

	health := handlers.NewHealthHandler(cfg.App, cfg.Logger)
	router.Get("/liveness", health.Liveness)
	router.Get("/readiness", health.Readiness)
	router.Get("/health", health.Health)

	records := handlers.NewRecordsHandler(cfg.App, cfg.Logger, cfg.Config.HTTPServer.MaxBodyBytes)

	router.Route(baseURL+"/{entity}", func(r chi.Router) {
		r.Get("/", records.List)
		r.Post("/", records.Create)
		r.Post("/query", records.Query)
		r.Get("/{id}", records.Get)
		r.Patch("/{id}", records.Update)
		r.Put("/{id}", records.Update)
		r.Delete("/{id}", records.Delete)
		r.Post("/{id}/restore", records.Restore)
	})

	if cfg.TracerProvider == nil {
		return router
	}

	return otelhttp.NewHandler(router, cfg.Config.App.ServiceName,
		otelhttp.WithTracerProvider(cfg.TracerProvider),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !middleware.IsHealthEndpoint(r.URL.Path)
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)
}

func rateLimiter(cfg RouterConfig) (func(http.Handler) http.Handler, error) {
	store := cfg.RateLimitStore
	if store == nil {
		memStore, err := memstore.NewCtx(int(cfg.Config.RateLimiting.MaxKeys))
		if err != nil {
			return nil, fmt.Errorf("creating in-memory rate limit store: %w", err)
		}

		store = memStore
	}

	return middleware.RateLimit(cfg.Config.RateLimiting, store, cfg.Logger)
}
