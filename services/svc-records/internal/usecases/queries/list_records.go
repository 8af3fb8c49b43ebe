package queries

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
	ListRecordsQuery struct {
		Entity string
		Method string
		Spec   model.FilterSpec
	}

	// RecordsPage is a shaped find-all result with the paging actually applied.
	RecordsPage struct {
		Output schema.Output
		Count  int
		Limit  uint64
		Offset uint64
	}

	ListRecordsQueryHandler = decorator.QueryHandler[ListRecordsQuery, *RecordsPage]

	listRecordsQueryHandler struct {
		recordsServices ports.RecordsServices
		pipeline        *schema.Pipeline
		maxLimit        uint64
	}
)

// NewListRecordsQueryHandler caps requested page sizes at maxLimit; zero disables the cap.
func NewListRecordsQueryHandler(
	svc ports.RecordsServices,
	pipeline *schema.Pipeline,
	maxLimit uint64,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListRecordsQueryHandler {
	return decorator.ApplyQueryDecorators[ListRecordsQuery, *RecordsPage](
		listRecordsQueryHandler{recordsServices: svc, pipeline: pipeline, maxLimit: maxLimit},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listRecordsQueryHandler) Execute(ctx context.Context, query ListRecordsQuery) (*RecordsPage, error) {
	svc, err := h.recordsServices.Service(query.Entity)
	if err != nil {
		return nil, err
	}

	spec := h.capLimit(query.Spec)

	records, err := svc.FindAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	output, err := h.pipeline.Shape(ctx, query.Entity, schema.OpFindAll, query.Method, records)
	if err != nil {
		return nil, err
	}

	return &RecordsPage{
		Output: output,
		Count:  len(records),
		Limit:  spec.Limit(),
		Offset: spec.Offset(),
	}, nil
}

func (h listRecordsQueryHandler) capLimit(spec model.FilterSpec) model.FilterSpec {
	if h.maxLimit == 0 || spec.Limit() <= h.maxLimit {
		return spec
	}

	capped := spec.Clone()
	capped.Pagination = &model.Pagination{Limit: h.maxLimit, Offset: spec.Offset()}

	return capped
}
