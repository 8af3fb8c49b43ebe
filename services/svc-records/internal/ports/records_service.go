package ports

import (
	"context"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

type (
	// RecordsService is the record access surface of one entity. Identifiers may be
	// strings or numbers and resolve identically.
	RecordsService interface {
		Entity() model.Entity
		Create(ctx context.Context, payload model.Record) (model.Record, error)
		FindAll(ctx context.Context, spec model.FilterSpec) ([]model.Record, error)
		FindOne(ctx context.Context, rawID any) (model.Record, error)
		Update(ctx context.Context, rawID any, payload model.Record) (model.Record, error)
		SoftDelete(ctx context.Context, rawID any) error
		Restore(ctx context.Context, rawID any) error
		Delete(ctx context.Context, rawID any) error
	}

	// RecordsServices looks up the service of a registered entity by name.
	RecordsServices interface {
		Service(entity string) (RecordsService, error)
		Entities() []string
	}
)
