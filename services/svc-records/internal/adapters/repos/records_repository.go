package repos

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type (
	// PoolOps defines the interface for database operations.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Ping(ctx context.Context) error
	}

	// RecordsRepository persists records of any registered entity.
	RecordsRepository struct {
		pool     PoolOps
		scanner  Scanner
		composer *QueryComposer
		logger   logger.Logger
	}
)

func NewRecordsRepository(
	pool PoolOps,
	scanner Scanner,
	composer *QueryComposer,
	log logger.Logger,
) *RecordsRepository {
	return &RecordsRepository{
		pool:     pool,
		scanner:  scanner,
		composer: composer,
		logger:   log,
	}
}

func (r *RecordsRepository) FindAll(ctx context.Context, entity model.Entity, spec model.FilterSpec) ([]model.Record, error) {
	query := r.composer.Apply(NewQuery(entity), spec)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	r.logger.Debug().
		Str("entity", entity.Name).
		Str("sql", sql).
		Int("args", len(args)).
		Msg("find all")

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	records, err := r.scanner.ScanRecords(rows, entity.Relations())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return records, nil
}

// FindByID loads one live record with its relations.
func (r *RecordsRepository) FindByID(ctx context.Context, entity model.Entity, id any) (model.Record, error) {
	sql, args, err := NewQuery(entity).
		Where(sq.Eq{Qualify(entity.PrimaryKey()): id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	record, err := r.scanner.ScanRecord(rows, entity.Relations())
	if err != nil {
		if r.scanner.IsNotFound(err) {
			return nil, model.NewNotFoundError(entity.Name, id)
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return record, nil
}

// Insert persists values and returns the stored record as FindByID sees it.
func (r *RecordsRepository) Insert(ctx context.Context, entity model.Entity, values model.Record) (model.Record, error) {
	sql, args, err := psql.Insert(entity.Table).
		SetMap(values).
		Suffix("RETURNING " + entity.PrimaryKey()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id any
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %w", model.ErrDuplicateRecord, err)
		}

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return r.FindByID(ctx, entity, id)
}

// Update overwrites the given columns of a live record and returns the stored result.
func (r *RecordsRepository) Update(ctx context.Context, entity model.Entity, id any, values model.Record) (model.Record, error) {
	builder := psql.Update(entity.Table).
		SetMap(values).
		Where(sq.Eq{entity.PrimaryKey(): id})

	if entity.UpdatedAtColumn != "" {
		builder = builder.Set(entity.UpdatedAtColumn, sq.Expr("now()"))
	}

	if entity.SupportsSoftDelete() {
		builder = builder.Where(sq.Eq{entity.SoftDeleteColumn: nil})
	}

	result, err := r.exec(ctx, builder)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected() == 0 {
		return nil, model.NewNotFoundError(entity.Name, id)
	}

	return r.FindByID(ctx, entity, id)
}

func (r *RecordsRepository) SoftDelete(ctx context.Context, entity model.Entity, id any) error {
	if !entity.SupportsSoftDelete() {
		return fmt.Errorf("%w: %s", model.ErrSoftDeleteUnsupported, entity.Name)
	}

	return r.execAffectingOne(ctx, entity, id, psql.Update(entity.Table).
		Set(entity.SoftDeleteColumn, sq.Expr("now()")).
		Where(sq.Eq{entity.PrimaryKey(): id}).
		Where(sq.Eq{entity.SoftDeleteColumn: nil}))
}

func (r *RecordsRepository) Restore(ctx context.Context, entity model.Entity, id any) error {
	if !entity.SupportsSoftDelete() {
		return fmt.Errorf("%w: %s", model.ErrSoftDeleteUnsupported, entity.Name)
	}

	return r.execAffectingOne(ctx, entity, id, psql.Update(entity.Table).
		Set(entity.SoftDeleteColumn, nil).
		Where(sq.Eq{entity.PrimaryKey(): id}))
}

// Delete removes the row; a missing row is reported as NotFound.
func (r *RecordsRepository) Delete(ctx context.Context, entity model.Entity, id any) error {
	return r.execAffectingOne(ctx, entity, id, psql.Delete(entity.Table).
		Where(sq.Eq{entity.PrimaryKey(): id}))
}

func (r *RecordsRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *RecordsRepository) execAffectingOne(ctx context.Context, entity model.Entity, id any, builder sq.Sqlizer) error {
	result, err := r.exec(ctx, builder)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return model.NewNotFoundError(entity.Name, id)
	}

	return nil
}

func (r *RecordsRepository) exec(ctx context.Context, builder sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("failed to build statement: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return pgconn.CommandTag{}, fmt.Errorf("%w: %w", model.ErrDuplicateRecord, err)
		}

		return pgconn.CommandTag{}, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return result, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
