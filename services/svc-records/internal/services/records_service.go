package services

import (
	"context"
	"fmt"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/ports"
)

// RecordsService implements create/find/update/delete for one entity. It is the
// error boundary: caller-actionable errors keep their kind, anything else is
// logged and replaced by model.ErrUnexpected.
type RecordsService struct {
	entity model.Entity
	repo   ports.RecordsRepository
	logger logger.Logger
}

func NewRecordsService(entity model.Entity, repo ports.RecordsRepository, log logger.Logger) *RecordsService {
	return &RecordsService{
		entity: entity,
		repo:   repo,
		logger: log,
	}
}

func (s *RecordsService) Entity() model.Entity {
	return s.entity
}

func (s *RecordsService) Create(ctx context.Context, payload model.Record) (model.Record, error) {
	record, err := s.repo.Insert(ctx, s.entity, payload)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	return record, nil
}

func (s *RecordsService) FindAll(ctx context.Context, spec model.FilterSpec) ([]model.Record, error) {
	records, err := s.repo.FindAll(ctx, s.entity, spec)
	if err != nil {
		return nil, s.fail(ctx, "findAll", err)
	}

	return records, nil
}

func (s *RecordsService) FindOne(ctx context.Context, rawID any) (model.Record, error) {
	id, err := model.ParseID(rawID, s.entity.IDKind)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindByID(ctx, s.entity, id)
	if err != nil {
		return nil, s.fail(ctx, "findOne", err)
	}

	return record, nil
}

// Update merges payload over the stored record; fields absent from payload keep their value.
func (s *RecordsService) Update(ctx context.Context, rawID any, payload model.Record) (model.Record, error) {
	id, err := model.ParseID(rawID, s.entity.IDKind)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, s.entity, id)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	merged := existing.Merge(payload)

	record, err := s.repo.Update(ctx, s.entity, id, s.entity.WritableFields(merged))
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	return record, nil
}

func (s *RecordsService) SoftDelete(ctx context.Context, rawID any) error {
	return s.withID(ctx, "softDelete", rawID, s.repo.SoftDelete)
}

// Restore clears the soft-delete marker; restoring a live record is a no-op.
func (s *RecordsService) Restore(ctx context.Context, rawID any) error {
	return s.withID(ctx, "restore", rawID, s.repo.Restore)
}

// Delete removes the record permanently and reports NotFound for unknown ids.
func (s *RecordsService) Delete(ctx context.Context, rawID any) error {
	return s.withID(ctx, "delete", rawID, s.repo.Delete)
}

func (s *RecordsService) withID(
	ctx context.Context,
	operation string,
	rawID any,
	fn func(ctx context.Context, entity model.Entity, id any) error,
) error {
	id, err := model.ParseID(rawID, s.entity.IDKind)
	if err != nil {
		return err
	}

	if err := fn(ctx, s.entity, id); err != nil {
		return s.fail(ctx, operation, err)
	}

	return nil
}

func (s *RecordsService) fail(ctx context.Context, operation string, err error) error {
	if model.IsClientError(err) {
		return err
	}

	opLogger := s.logger.ForOperation(ctx, s.entity.Name, operation)
	opLogger.Error().
		Err(err).
		Msg("record access failed")

	return fmt.Errorf("%w: %s %s", model.ErrUnexpected, s.entity.Name, operation)
}
