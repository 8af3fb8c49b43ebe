package queries

import (
	"context"

	"github.com/architeacher/records/pkg/decorator"
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	GetRecordQuery struct {
		Entity string
		Method string
		ID     any
	}

	GetRecordQueryHandler = decorator.QueryHandler[GetRecordQuery, schema.Output]

	getRecordQueryHandler struct {
		recordsServices ports.RecordsServices
		pipeline        *schema.Pipeline
	}
)

func NewGetRecordQueryHandler(
	svc ports.RecordsServices,
	pipeline *schema.Pipeline,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetRecordQueryHandler {
	return decorator.ApplyQueryDecorators[GetRecordQuery, schema.Output](
		getRecordQueryHandler{recordsServices: svc, pipeline: pipeline},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getRecordQueryHandler) Execute(ctx context.Context, query GetRecordQuery) (schema.Output, error) {
	svc, err := h.recordsServices.Service(query.Entity)
	if err != nil {
		return schema.Output{}, err
	}

	record, err := svc.FindOne(ctx, query.ID)
	if err != nil {
		return schema.Output{}, err
	}

	return h.pipeline.Shape(ctx, query.Entity, schema.OpFindOne, query.Method, record)
}
