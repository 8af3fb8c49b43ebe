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
	SoftDeleteRecordCommand struct {
		Entity string
		ID     any
	}

	SoftDeleteRecordCommandHandler = decorator.CommandHandler[SoftDeleteRecordCommand, struct{}]

	softDeleteRecordCommandHandler struct {
		recordsServices ports.RecordsServices
	}

	RestoreRecordCommand struct {
		Entity string
		ID     any
	}

	RestoreRecordCommandHandler = decorator.CommandHandler[RestoreRecordCommand, struct{}]

	restoreRecordCommandHandler struct {
		recordsServices ports.RecordsServices
	}
)

func NewSoftDeleteRecordCommandHandler(
	svc ports.RecordsServices,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) SoftDeleteRecordCommandHandler {
	return decorator.ApplyCommandDecorators[SoftDeleteRecordCommand, struct{}](
		softDeleteRecordCommandHandler{recordsServices: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h softDeleteRecordCommandHandler) Handle(ctx context.Context, cmd SoftDeleteRecordCommand) (struct{}, error) {
	svc, err := h.recordsServices.Service(cmd.Entity)
	if err != nil {
		return struct{}{}, err
	}

	return struct{}{}, svc.SoftDelete(ctx, cmd.ID)
}

func NewRestoreRecordCommandHandler(
	svc ports.RecordsServices,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) RestoreRecordCommandHandler {
	return decorator.ApplyCommandDecorators[RestoreRecordCommand, struct{}](
		restoreRecordCommandHandler{recordsServices: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h restoreRecordCommandHandler) Handle(ctx context.Context, cmd RestoreRecordCommand) (struct{}, error) {
	svc, err := h.recordsServices.Service(cmd.Entity)
	if err != nil {
		return struct{}{}, err
	}

	return struct{}{}, svc.Restore(ctx, cmd.ID)
}
