package repos

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

// QueryComposer applies a FilterSpec onto a Query. Clause order is fixed:
// filters, orderBy, selectFields, pagination, search, date, includeDeleted, isNull, groupBy.
// Field names are passed to the store unchecked; every value is bound.
type QueryComposer struct {
	logger logger.Logger
}

func NewQueryComposer(log logger.Logger) *QueryComposer {
	return &QueryComposer{logger: log}
}

func (c *QueryComposer) Apply(q *Query, spec model.FilterSpec) *Query {
	q = c.applyFilters(q, spec.Filters)
	q = c.applyOrderBy(q, spec.OrderBy)
	q = c.applySelectFields(q, spec.SelectFields)
	q = c.applyPagination(q, spec.Pagination)
	q = c.applySearch(q, spec.Search)
	q = c.applyDateFilter(q, spec.Date)
	q = c.applyIncludeDeleted(q, spec.IncludeDeleted)
	q = c.applyIsNull(q, spec.IsNull)
	q = c.applyGroupBy(q, spec.GroupBy)

	return q
}

func (c *QueryComposer) applyFilters(q *Query, filters map[string]any) *Query {
	if len(filters) == 0 {
		return q
	}

	specs := make([]model.Specification, 0, len(filters))
	for _, field := range slices.Sorted(maps.Keys(filters)) {
		specs = append(specs, model.Eq(Qualify(field), filters[field]))
	}

	if len(specs) == 1 {
		return q.Where(c.translateSpec(specs[0]))
	}

	return q.Where(c.translateSpec(model.Must(specs...)))
}

func (c *QueryComposer) applyOrderBy(q *Query, orderBy []model.SortField) *Query {
	for _, term := range orderBy {
		if term.Field == "" {
			continue
		}

		q = q.OrderBy(fmt.Sprintf("%s %s", Qualify(term.Field), term.Direction.Normalize()))
	}

	return q
}

func (c *QueryComposer) applySelectFields(q *Query, fields []string) *Query {
	if len(fields) == 0 {
		return q
	}

	entity := q.Entity()
	columns := make([]string, 0, len(entity.Joins)*2+len(fields))
	seen := make(map[string]struct{}, cap(columns))

	add := func(column string) {
		if _, ok := seen[column]; ok {
			return
		}

		seen[column] = struct{}{}
		columns = append(columns, column)
	}

	for _, relation := range entity.Relations() {
		for _, column := range entity.SelectFieldsPerRelation() {
			add(relationColumn(relation, column))
		}
	}

	for _, field := range fields {
		relation, column, dotted := strings.Cut(field, ".")
		if !dotted {
			add(Qualify(field))

			continue
		}

		if _, ok := entity.Relation(relation); ok {
			add(relationColumn(relation, column))

			continue
		}

		add(field)
	}

	return q.Project(columns...)
}

func (c *QueryComposer) applyPagination(q *Query, pagination *model.Pagination) *Query {
	if pagination == nil || pagination.Limit == 0 {
		return q
	}

	return q.Limit(pagination.Limit).Offset(pagination.Offset)
}

func (c *QueryComposer) applySearch(q *Query, search *model.Search) *Query {
	if search == nil || search.Value == "" || len(search.Fields) == 0 {
		return q
	}

	terms := make([]model.Specification, 0, len(search.Fields))
	for _, field := range search.Fields {
		terms = append(terms, model.Like(Qualify(field), "%"+search.Value+"%"))
	}

	return q.Where(c.translateSpec(model.Should(terms...)))
}

func (c *QueryComposer) applyDateFilter(q *Query, date *model.DateRange) *Query {
	if date == nil {
		return q
	}

	if date.Field == "" || date.From == "" || date.To == "" {
		c.logger.Debug().
			Str("field", date.Field).
			Msg("incomplete date range ignored")

		return q
	}

	return q.Where(c.translateSpec(model.Between(Qualify(date.Field), date.From, date.To)))
}

func (c *QueryComposer) applyIncludeDeleted(q *Query, include bool) *Query {
	if !include {
		return q
	}

	return q.IncludeDeleted()
}

func (c *QueryComposer) applyIsNull(q *Query, check *model.NullCheck) *Query {
	if check == nil || check.Field == "" {
		return q
	}

	if check.IsNull {
		return q.Where(c.translateSpec(model.IsNull(Qualify(check.Field))))
	}

	return q.Where(c.translateSpec(model.NotNull(Qualify(check.Field))))
}

func (c *QueryComposer) applyGroupBy(q *Query, grouping *model.Grouping) *Query {
	if grouping == nil || grouping.Field == "" {
		return q
	}

	q = q.GroupBy(Qualify(grouping.Field))

	if grouping.Having == "" {
		return q
	}

	return q.Having(grouping.Having+" ?", grouping.Value)
}

func (c *QueryComposer) translateSpec(spec model.Specification) sq.Sqlizer {
	switch spec.Operator() {
	case model.SpecOpEq:
		return sq.Eq{spec.Field(): spec.Value()}

	case model.SpecOpLike:
		return sq.Like{spec.Field(): spec.Value()}

	case model.SpecOpBetween:
		values := spec.Value().([]any)

		return sq.Expr(spec.Field()+" BETWEEN ? AND ?", values[0], values[1])

	case model.SpecOpIsNull:
		return sq.Eq{spec.Field(): nil}

	case model.SpecOpNotNull:
		return sq.NotEq{spec.Field(): nil}

	case model.SpecOpMust:
		conditions := make(sq.And, 0, len(spec.Children()))
		for _, child := range spec.Children() {
			conditions = append(conditions, c.translateSpec(child))
		}

		return conditions

	case model.SpecOpShould:
		conditions := make(sq.Or, 0, len(spec.Children()))
		for _, child := range spec.Children() {
			conditions = append(conditions, c.translateSpec(child))
		}

		return conditions
	}

	return nil
}
