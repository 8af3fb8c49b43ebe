package grpc

import (
	"context"

	"github.com/architeacher/records/services/svc-records/internal/ports"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthHandler serves the standard gRPC health protocol, reporting SERVING
// while the records database answers pings.
type HealthHandler struct {
	healthpb.UnimplementedHealthServer

	dbHealthChecker ports.DatabaseHealthChecker
}

func NewHealthHandler(dbHealthChecker ports.DatabaseHealthChecker) *HealthHandler {
	return &HealthHandler{
		dbHealthChecker: dbHealthChecker,
	}
}

func (h *HealthHandler) Check(ctx context.Context, _ *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	return &healthpb.HealthCheckResponse{Status: h.status(ctx)}, nil
}

// Watch reports the current status once.
func (h *HealthHandler) Watch(_ *healthpb.HealthCheckRequest, stream healthpb.Health_WatchServer) error {
	return stream.Send(&healthpb.HealthCheckResponse{Status: h.status(stream.Context())})
}

func (h *HealthHandler) status(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	if h.dbHealthChecker == nil {
		return healthpb.HealthCheckResponse_SERVING
	}

	if err := h.dbHealthChecker.Ping(ctx); err != nil {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}

	return healthpb.HealthCheckResponse_SERVING
}
