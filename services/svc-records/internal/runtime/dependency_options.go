package runtime

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/architeacher/records/pkg/circuitbreaker"
	"github.com/architeacher/records/pkg/logger"
	inboundgrpc "github.com/architeacher/records/services/svc-records/internal/adapters/inbound/grpc"
	inboundhttp "github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http"
	"github.com/architeacher/records/services/svc-records/internal/adapters/repos"
	"github.com/architeacher/records/services/svc-records/internal/catalog"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/architeacher/records/services/svc-records/internal/infrastructure/keydb"
	infraPostgres "github.com/architeacher/records/services/svc-records/internal/infrastructure/postgres"
	"github.com/architeacher/records/services/svc-records/internal/infrastructure/telemetry"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/architeacher/records/services/svc-records/internal/services"
	"github.com/architeacher/records/services/svc-records/internal/usecases"
	"github.com/hashicorp/vault/api"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithSecretsRepository(),
		WithConfigLoader(ctx),
		WithTracing(ctx),
		WithMetrics(),
		WithDatabase(ctx),
		WithMigrations(),
		WithCache(ctx),
		WithRateLimitStore(),
		WithRecordsRepository(),
		WithRecordsServices(),
		WithSchemaPipeline(),
		WithApplication(),
		WithHTTPServer(),
		WithGRPCServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithSecretsRepository() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled {
			return nil
		}

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = d.config.SecretsStorage.Address
		vaultConfig.Timeout = d.config.SecretsStorage.Timeout

		if d.config.SecretsStorage.TLSSkipVerify {
			vaultConfig.HttpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("creating Vault client: %w", err)
		}

		if d.config.SecretsStorage.Namespace != "" {
			client.SetNamespace(d.config.SecretsStorage.Namespace)
		}

		d.repos.secretsRepo = repos.NewVaultRepository(client)

		return nil
	}
}

func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if d.repos.secretsRepo == nil {
			return nil
		}

		version, err := config.NewLoader(d.config, d.repos.secretsRepo).Load(ctx)
		if err != nil {
			if errors.Is(err, config.ErrSecretsDisabled) {
				return nil
			}

			return fmt.Errorf("loading secrets from Vault: %w", err)
		}

		d.infra.logger.Info().
			Uint("version", version).
			Msg("applied secrets from Vault")

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Traces.Enabled || d.config.Telemetry.OTLPEndpoint == "" {
			d.infra.tracerProvider = telemetry.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := telemetry.NewTracerProvider(
			ctx,
			d.config.Telemetry.ServiceName,
			d.config.App.ServiceVersion,
			d.config.Telemetry.OTLPEndpoint,
		)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.cleanupFuncs["tracer"] = shutdown

		return nil
	}
}

func WithMetrics() DependencyOption {
	return func(d *dependencies) error {
		d.infra.metricsClient = telemetry.NewMetricsClient(
			d.config.Telemetry.Metrics.Enabled,
			d.config.Telemetry.ServiceName,
		)
		d.cleanupFuncs["metrics"] = d.infra.metricsClient.Shutdown

		return nil
	}
}

func WithDatabase(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		pool, err := infraPostgres.NewPool(ctx, d.config.Database, d.infra.logger)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.cleanupFuncs["database"] = func(_ context.Context) error {
			pool.Close()

			return nil
		}

		return nil
	}
}

func WithMigrations() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Migrations.Enabled {
			return nil
		}

		if err := infraPostgres.Migrate(d.config.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		d.infra.logger.Info().Msg("database migrations applied")

		return nil
	}
}

func WithCache(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Cache.Enabled {
			return nil
		}

		client := keydb.NewClient(d.config.Cache, d.infra.logger)

		if err := client.Ping(ctx); err != nil {
			_ = client.Close()

			return fmt.Errorf("connecting to cache: %w", err)
		}

		d.infra.cacheClient = client
		d.cleanupFuncs["cache"] = func(_ context.Context) error {
			return client.Close()
		}

		d.infra.logger.Info().
			Str("address", d.config.Cache.Address).
			Msg("connected to cache")

		return nil
	}
}

func WithRateLimitStore() DependencyOption {
	return func(d *dependencies) error {
		if d.infra.cacheClient == nil {
			return nil
		}

		d.repos.rateLimitStore = repos.NewRateLimitStore(d.infra.cacheClient)

		return nil
	}
}

func WithRecordsRepository() DependencyOption {
	return func(d *dependencies) error {
		cbCfg := d.config.CircuitBreaker

		pool := repos.NewGuardedPool(d.infra.dbPool, circuitbreaker.Config{
			Name:             cbCfg.Name,
			Enabled:          cbCfg.Enabled,
			MaxRequests:      cbCfg.MaxRequests,
			Interval:         cbCfg.Interval,
			Timeout:          cbCfg.Timeout,
			FailureThreshold: cbCfg.FailureThreshold,
		})

		d.repos.recordsRepo = repos.NewRecordsRepository(
			pool,
			repos.NewPgxScanner(),
			repos.NewQueryComposer(d.infra.logger),
			d.infra.logger,
		)

		return nil
	}
}

func WithRecordsServices() DependencyOption {
	return func(d *dependencies) error {
		entities, err := catalog.Entities(d.config.Records.RelationSelectFields)
		if err != nil {
			return fmt.Errorf("building entity catalog: %w", err)
		}

		recordsServices := make([]ports.RecordsService, 0, len(entities))
		for _, entity := range entities {
			recordsServices = append(recordsServices, services.NewRecordsService(entity, d.repos.recordsRepo, d.infra.logger))
		}

		directory, err := services.NewDirectory(recordsServices...)
		if err != nil {
			return fmt.Errorf("registering records services: %w", err)
		}

		d.recordsServices = directory

		return nil
	}
}

func WithSchemaPipeline() DependencyOption {
	return func(d *dependencies) error {
		registry := schema.NewRegistry()

		if err := catalog.Register(registry); err != nil {
			return fmt.Errorf("registering schemas: %w", err)
		}

		d.pipeline = schema.NewPipeline(registry, d.infra.logger)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewApplication(
			d.recordsServices,
			d.pipeline,
			d.config.Records.MaxLimit,
			d.getDBHealthChecker(),
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			App:            d.app,
			Logger:         d.infra.logger,
			MetricsClient:  d.infra.metricsClient,
			TracerProvider: d.infra.tracerProvider,
			RateLimitStore: d.getRateLimitStore(),
			Config:         d.config,
		})

		cfg := d.config.HTTPServer

		d.infra.httpServer = &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		}

		return nil
	}
}

func WithGRPCServer() DependencyOption {
	return func(d *dependencies) error {
		server := inboundgrpc.NewServer(inboundgrpc.ServerConfig{
			Logger:          d.infra.logger,
			MetricsClient:   d.infra.metricsClient,
			TracerProvider:  d.infra.tracerProvider,
			DBHealthChecker: d.getDBHealthChecker(),
			Config:          d.config,
		})

		d.infra.grpcServer = server

		return nil
	}
}
