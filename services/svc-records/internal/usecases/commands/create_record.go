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
	CreateRecordCommand struct {
		Entity  string
		Method  string
		Payload model.Record
	}

	CreateRecordCommandHandler = decorator.CommandHandler[CreateRecordCommand, schema.Output]

	createRecordCommandHandler struct {
		recordsServices ports.RecordsServices
		pipeline        *schema.Pipeline
	}
)

func NewCreateRecordCommandHandler(
	svc ports.RecordsServices,
	pipeline *schema.Pipeline,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CreateRecordCommandHandler {
	return decorator.ApplyCommandDecorators[CreateRecordCommand, schema.Output](
		createRecordCommandHandler{recordsServices: svc, pipeline: pipeline},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h createRecordCommandHandler) Handle(ctx context.Context, cmd CreateRecordCommand) (schema.Output, error) {
	svc, err := h.recordsServices.Service(cmd.Entity)
	if err != nil {
		return schema.Output{}, err
	}

	payload, err := h.pipeline.Inbound(ctx, cmd.Entity, schema.OpCreate, cmd.Method, cmd.Payload)
	if err != nil {
		return schema.Output{}, err
	}

	record, err := svc.Create(ctx, payload)
	if err != nil {
		return schema.Output{}, err
	}

	return h.pipeline.Shape(ctx, cmd.Entity, schema.OpCreate, cmd.Method, record)
}
