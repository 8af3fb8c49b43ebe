package repos

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Query is a select scoped to one entity under the root alias with every relation left-joined.
// Soft-deleted rows are excluded unless IncludeDeleted is called.
type Query struct {
	entity      model.Entity
	builder     sq.SelectBuilder
	withDeleted bool
}

func NewQuery(entity model.Entity) *Query {
	builder := psql.Select(fullProjection(entity)...).
		From(fmt.Sprintf("%s AS %s", entity.Table, model.RootAlias))

	for _, relation := range entity.Joins {
		builder = builder.LeftJoin(fmt.Sprintf(
			"%s AS %s ON %s.%s = %s.%s",
			relation.Table, relation.Name,
			relation.Name, relation.ForeignKey,
			model.RootAlias, relation.LocalKey,
		))
	}

	return &Query{entity: entity, builder: builder}
}

func (q *Query) Entity() model.Entity {
	return q.entity
}

func (q *Query) Where(pred any, args ...any) *Query {
	q.builder = q.builder.Where(pred, args...)

	return q
}

func (q *Query) OrderBy(terms ...string) *Query {
	q.builder = q.builder.OrderBy(terms...)

	return q
}

// Project replaces the selected columns.
func (q *Query) Project(columns ...string) *Query {
	q.builder = q.builder.RemoveColumns().Columns(columns...)

	return q
}

func (q *Query) Limit(limit uint64) *Query {
	q.builder = q.builder.Limit(limit)

	return q
}

func (q *Query) Offset(offset uint64) *Query {
	q.builder = q.builder.Offset(offset)

	return q
}

func (q *Query) GroupBy(columns ...string) *Query {
	q.builder = q.builder.GroupBy(columns...)

	return q
}

func (q *Query) Having(pred any, args ...any) *Query {
	q.builder = q.builder.Having(pred, args...)

	return q
}

func (q *Query) IncludeDeleted() *Query {
	q.withDeleted = true

	return q
}

func (q *Query) ToSql() (string, []any, error) {
	builder := q.builder

	if !q.withDeleted && q.entity.SupportsSoftDelete() {
		builder = builder.Where(sq.Eq{Qualify(q.entity.SoftDeleteColumn): nil})
	}

	return builder.ToSql()
}

// Qualify namespaces a field to the root alias unless it is already relation-qualified.
func Qualify(field string) string {
	if strings.Contains(field, ".") {
		return field
	}

	return model.RootAlias + "." + field
}

// relationColumn selects a joined column under a "relation.column" alias so rows can be nested.
func relationColumn(relation, column string) string {
	return fmt.Sprintf(`%s.%s AS "%s.%s"`, relation, column, relation, column)
}

func fullProjection(entity model.Entity) []string {
	columns := []string{model.RootAlias + ".*"}

	for _, relation := range entity.Joins {
		relationColumns := relation.Columns
		if len(relationColumns) == 0 {
			relationColumns = entity.SelectFieldsPerRelation()
		}

		for _, column := range relationColumns {
			columns = append(columns, relationColumn(relation.Name, column))
		}
	}

	return columns
}
