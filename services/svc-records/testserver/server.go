// Package testserver provides the records service backed by a PostgreSQL container for integration testing.
package testserver

import (
	"context"
	"fmt"
	"net"
	"net/http/httptest"
	"time"

	"github.com/architeacher/records/pkg/circuitbreaker"
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics/noop"
	inboundgrpc "github.com/architeacher/records/services/svc-records/internal/adapters/inbound/grpc"
	inboundhttp "github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http"
	"github.com/architeacher/records/services/svc-records/internal/adapters/repos"
	"github.com/architeacher/records/services/svc-records/internal/catalog"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	infraPostgres "github.com/architeacher/records/services/svc-records/internal/infrastructure/postgres"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/architeacher/records/services/svc-records/internal/services"
	"github.com/architeacher/records/services/svc-records/internal/usecases"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	otelNoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
)

const (
	postgresImage    = "postgres:18-alpine"
	postgresDatabase = "records_test"
	postgresUsername = "test"
	postgresPassword = "test"
)

// TestServer serves the HTTP and gRPC surfaces against a migrated PostgreSQL container.
type TestServer struct {
	HTTPServer    *httptest.Server
	GRPCServer    *grpc.Server
	GRPCListener  net.Listener
	DBPool        *pgxpool.Pool
	Repository    *repos.RecordsRepository
	Services      *services.Directory
	Container     *postgres.PostgresContainer
	containerCtx  context.Context
	containerStop context.CancelFunc
}

// New starts PostgreSQL, applies the embedded migrations and wires the service on top of it.
func New(ctx context.Context) (*TestServer, error) {
	containerCtx, containerStop := context.WithTimeout(ctx, 5*time.Minute)

	container, err := postgres.Run(containerCtx,
		postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUsername),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		containerStop()

		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	server := &TestServer{
		Container:     container,
		containerCtx:  containerCtx,
		containerStop: containerStop,
	}

	if err := server.wire(containerCtx); err != nil {
		server.Close()

		return nil, err
	}

	return server, nil
}

func (s *TestServer) wire(ctx context.Context) error {
	connStr, err := s.Container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("getting connection string: %w", err)
	}

	if err := infraPostgres.Migrate(connStr); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	s.DBPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("creating database pool: %w", err)
	}

	log := logger.NewTestLogger()
	metricsClient := noop.NewMetricsClient()
	tracerProvider := otelNoop.NewTracerProvider()

	s.Repository = repos.NewRecordsRepository(
		repos.NewGuardedPool(s.DBPool, circuitbreaker.Config{Enabled: false}),
		repos.NewPgxScanner(),
		repos.NewQueryComposer(log),
		log,
	)

	entities, err := catalog.Entities(model.DefaultRelationSelectFields)
	if err != nil {
		return fmt.Errorf("building entity catalog: %w", err)
	}

	recordsServices := make([]ports.RecordsService, 0, len(entities))
	for _, entity := range entities {
		recordsServices = append(recordsServices, services.NewRecordsService(entity, s.Repository, log))
	}

	s.Services, err = services.NewDirectory(recordsServices...)
	if err != nil {
		return fmt.Errorf("registering records services: %w", err)
	}

	registry := schema.NewRegistry()
	if err := catalog.Register(registry); err != nil {
		return fmt.Errorf("registering schemas: %w", err)
	}

	cfg := &config.ServiceConfig{}
	cfg.HTTPServer.MaxBodyBytes = 1 << 20
	cfg.HTTPServer.ETagEnabled = true
	cfg.Compression = config.Compression{Enabled: true, Level: 5, MinSize: 1024}
	cfg.Records.MaxLimit = 500

	app := usecases.NewApplication(
		s.Services,
		schema.NewPipeline(registry, log),
		cfg.Records.MaxLimit,
		s.Repository,
		log,
		tracerProvider,
		metricsClient,
	)

	s.HTTPServer = httptest.NewServer(inboundhttp.NewRouter(inboundhttp.RouterConfig{
		App:            app,
		Logger:         log,
		MetricsClient:  metricsClient,
		TracerProvider: tracerProvider,
		Config:         cfg,
	}))

	s.GRPCServer = inboundgrpc.NewServer(inboundgrpc.ServerConfig{
		Logger:          log,
		MetricsClient:   metricsClient,
		TracerProvider:  tracerProvider,
		DBHealthChecker: s.Repository,
		Config:          cfg,
	})

	s.GRPCListener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("creating gRPC listener: %w", err)
	}

	go s.GRPCServer.Serve(s.GRPCListener)

	return nil
}

// URL returns the base URL of the HTTP surface.
func (s *TestServer) URL() string {
	return s.HTTPServer.URL
}

// GRPCAddress returns the gRPC server address.
func (s *TestServer) GRPCAddress() string {
	return s.GRPCListener.Addr().String()
}

// Truncate removes every catalog row and resets the identity sequences.
func (s *TestServer) Truncate(ctx context.Context) error {
	_, err := s.DBPool.Exec(ctx, "TRUNCATE TABLE posts, profiles, users RESTART IDENTITY CASCADE")

	return err
}

// Close shuts down the servers and cleans up resources.
func (s *TestServer) Close() {
	if s.HTTPServer != nil {
		s.HTTPServer.Close()
	}

	if s.GRPCServer != nil {
		s.GRPCServer.GracefulStop()
	}

	if s.DBPool != nil {
		s.DBPool.Close()
	}

	if s.Container != nil {
		_ = s.Container.Terminate(s.containerCtx)
	}

	if s.containerStop != nil {
		s.containerStop()
	}
}
