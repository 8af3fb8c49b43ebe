package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/adapters/repos"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/architeacher/records/services/svc-records/internal/infrastructure/keydb"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/architeacher/records/services/svc-records/internal/services"
	"github.com/architeacher/records/services/svc-records/internal/usecases"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/throttled/throttled/v2"
	otelTrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		grpcServer     *grpc.Server
		tracerProvider otelTrace.TracerProvider
		metricsClient  metrics.Client
		logger         logger.Logger
		dbPool         *pgxpool.Pool
		cacheClient    *keydb.Client
	}

	repositories struct {
		secretsRepo    ports.SecretsRepository
		recordsRepo    *repos.RecordsRepository
		rateLimitStore *repos.RateLimitStore
	}

	dependencies struct {
		config          *config.ServiceConfig
		infra           infrastructureDep
		repos           repositories
		recordsServices *services.Directory
		pipeline        *schema.Pipeline
		app             *usecases.Application

		cleanupFuncs map[string]func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{
		cleanupFuncs: make(map[string]func(ctx context.Context) error),
	}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) getDBHealthChecker() ports.DatabaseHealthChecker {
	return d.repos.recordsRepo
}

// getRateLimitStore returns nil when the cache is disabled so the router
// falls back to an in-memory store.
func (d *dependencies) getRateLimitStore() throttled.GCRAStoreCtx {
	if d.repos.rateLimitStore == nil {
		return nil
	}

	return d.repos.rateLimitStore
}
