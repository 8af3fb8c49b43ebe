package ports

import (
	"context"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

type (
	Saver interface {
		// Insert stores a new record and returns it as persisted.
		Insert(ctx context.Context, entity model.Entity, values model.Record) (model.Record, error)
	}

	Fetcher interface {
		// FindByID retrieves a live record with its relations.
		FindByID(ctx context.Context, entity model.Entity, id any) (model.Record, error)
	}

	Finder interface {
		// FindAll retrieves the records matching a filter specification.
		FindAll(ctx context.Context, entity model.Entity, spec model.FilterSpec) ([]model.Record, error)
	}

	Updater interface {
		// Update overwrites columns of an existing record.
		Update(ctx context.Context, entity model.Entity, id any, values model.Record) (model.Record, error)
	}

	Deleter interface {
		SoftDelete(ctx context.Context, entity model.Entity, id any) error
		Restore(ctx context.Context, entity model.Entity, id any) error
		Delete(ctx context.Context, entity model.Entity, id any) error
	}

	// RecordsRepository defines the persistence operations shared by every entity.
	RecordsRepository interface {
		Saver
		Fetcher
		Finder
		Updater
		Deleter
	}
)
