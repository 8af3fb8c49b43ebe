package commands

import (
	"context"

	"github.com/architeacher/records/pkg/decorator"
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	// UpdateRecordCommand carries a partial payload; absent fields keep their stored value.
	UpdateRecordCommand struct {
		Entity  string
		Method  string
		ID      any
		Payload model.Record
	}

	UpdateRecordCommandHandler = decorator.CommandHandler[UpdateRecordCommand, schema.Output]

	updateRecordCommandHandler struct {
		recordsServices ports.RecordsServices
		pipeline        *schema.Pipeline
	}
)

func NewUpdateRecordCommandHandler(
	svc ports.RecordsServices,
	pipeline *schema.Pipeline,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) UpdateRecordCommandHandler {
	return decorator.ApplyCommandDecorators[UpdateRecordCommand, schema.Output](
		updateRecordCommandHandler{recordsServices: svc, pipeline: pipeline},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h updateRecordCommandHandler) Handle(ctx context.Context, cmd UpdateRecordCommand) (schema.Output, error) {
	svc, err := h.recordsServices.Service(cmd.Entity)
	if err != nil {
		return schema.Output{}, err
	}

	payload, err := h.pipeline.Inbound(ctx, cmd.Entity, schema.OpUpdate, cmd.Method, cmd.Payload)
	if err != nil {
		return schema.Output{}, err
	}

	record, err := svc.Update(ctx, cmd.ID, payload)
	if err != nil {
		return schema.Output{}, err
	}

	return h.pipeline.Shape(ctx, cmd.Entity, schema.OpUpdate, cmd.Method, record)
}
