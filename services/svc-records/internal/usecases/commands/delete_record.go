package commands

import (
	"context"

	"github.com/architeacher/records/pkg/decorator"
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	DeleteRecordCommand struct {
		Entity string
		ID     any
	}

	DeleteRecordCommandHandler = decorator.CommandHandler[DeleteRecordCommand, struct{}]

	deleteRecordCommandHandler struct {
		recordsServices ports.RecordsServices
	}
)

func NewDeleteRecordCommandHandler(
	svc ports.RecordsServices,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) DeleteRecordCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteRecordCommand, struct{}](
		deleteRecordCommandHandler{recordsServices: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteRecordCommandHandler) Handle(ctx context.Context, cmd DeleteRecordCommand) (struct{}, error) {
	svc, err := h.recordsServices.Service(cmd.Entity)
	if err != nil {
		return struct{}{}, err
	}

	if err := svc.Delete(ctx, cmd.ID); err != nil {
		return struct{}{}, err
	}

	return struct{}{}, nil
}
