package grpc

import (
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	otelTrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type ServerConfig struct {
	Logger          logger.Logger
	MetricsClient   metrics.Client
	TracerProvider  otelTrace.TracerProvider
	DBHealthChecker ports.DatabaseHealthChecker
	Config          *config.ServiceConfig
}

// NewServer builds the gRPC server exposing the health protocol.
func NewServer(cfg ServerConfig) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		RecoveryInterceptor(cfg.Logger),
		ContextExtractorInterceptor(),
		AccessLogInterceptor(cfg.Logger, cfg.Config.Logging.AccessLog),
	}

	if cfg.Config.Telemetry.Metrics.Enabled {
		interceptors = append(interceptors, MetricsInterceptor(cfg.MetricsClient))
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(interceptors...),
	}

	if cfg.TracerProvider != nil {
		opts = append(opts, grpc.StatsHandler(otelgrpc.NewServerHandler(
			otelgrpc.WithTracerProvider(cfg.TracerProvider),
		)))
	}

	server := grpc.NewServer(opts...)

	healthpb.RegisterHealthServer(server, NewHealthHandler(cfg.DBHealthChecker))

	if cfg.Config.GRPCServer.Reflection {
		reflection.Register(server)
	}

	return server
}
