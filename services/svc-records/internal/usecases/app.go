package usecases

import (
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/ports"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/architeacher/records/services/svc-records/internal/usecases/commands"
	"github.com/architeacher/records/services/svc-records/internal/usecases/queries"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		CreateRecord     commands.CreateRecordCommandHandler
		UpdateRecord     commands.UpdateRecordCommandHandler
		SoftDeleteRecord commands.SoftDeleteRecordCommandHandler
		RestoreRecord    commands.RestoreRecordCommandHandler
		DeleteRecord     commands.DeleteRecordCommandHandler
	}

	Queries struct {
		GetRecord         queries.GetRecordQueryHandler
		ListRecords       queries.ListRecordsQueryHandler
		FetchLiveness     queries.FetchLivenessQueryHandler
		FetchReadiness    queries.FetchReadinessQueryHandler
		FetchHealthReport queries.FetchHealthReportQueryHandler
	}

	Application struct {
		Commands Commands
		Queries  Queries
	}
)

func NewApplication(
	recordsSvc ports.RecordsServices,
	pipeline *schema.Pipeline,
	maxLimit uint64,
	dbHealthChecker ports.DatabaseHealthChecker,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) *Application {
	return &Application{
		Commands: Commands{
			CreateRecord:     commands.NewCreateRecordCommandHandler(recordsSvc, pipeline, log, metricsClient, tracerProvider),
			UpdateRecord:     commands.NewUpdateRecordCommandHandler(recordsSvc, pipeline, log, metricsClient, tracerProvider),
			SoftDeleteRecord: commands.NewSoftDeleteRecordCommandHandler(recordsSvc, log, metricsClient, tracerProvider),
			RestoreRecord:    commands.NewRestoreRecordCommandHandler(recordsSvc, log, metricsClient, tracerProvider),
			DeleteRecord:     commands.NewDeleteRecordCommandHandler(recordsSvc, log, metricsClient, tracerProvider),
		},
		Queries: Queries{
			GetRecord:         queries.NewGetRecordQueryHandler(recordsSvc, pipeline, log, metricsClient, tracerProvider),
			ListRecords:       queries.NewListRecordsQueryHandler(recordsSvc, pipeline, maxLimit, log, metricsClient, tracerProvider),
			FetchLiveness:     queries.NewFetchLivenessQueryHandler(log, metricsClient, tracerProvider),
			FetchReadiness:    queries.NewFetchReadinessQueryHandler(dbHealthChecker, log, metricsClient, tracerProvider),
			FetchHealthReport: queries.NewFetchHealthReportQueryHandler(dbHealthChecker, recordsSvc, log, metricsClient, tracerProvider),
		},
	}
}
