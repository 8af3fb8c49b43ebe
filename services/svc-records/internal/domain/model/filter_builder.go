package model

// FilterSpecBuilder accumulates clauses fluently; Build returns an independent snapshot.
type FilterSpecBuilder struct {
	spec FilterSpec
}

func NewFilterSpec() *FilterSpecBuilder {
	return &FilterSpecBuilder{}
}

func (b *FilterSpecBuilder) Where(field string, value any) *FilterSpecBuilder {
	if b.spec.Filters == nil {
		b.spec.Filters = make(map[string]any)
	}

	b.spec.Filters[field] = value

	return b
}

func (b *FilterSpecBuilder) OrderBy(field string, direction SortDirection) *FilterSpecBuilder {
	b.spec.OrderBy = append(b.spec.OrderBy, SortField{Field: field, Direction: direction.Normalize()})

	return b
}

func (b *FilterSpecBuilder) Select(fields ...string) *FilterSpecBuilder {
	b.spec.SelectFields = append(b.spec.SelectFields, fields...)

	return b
}

func (b *FilterSpecBuilder) Paginate(limit, offset uint64) *FilterSpecBuilder {
	b.spec.Pagination = &Pagination{Limit: limit, Offset: offset}

	return b
}

func (b *FilterSpecBuilder) Search(value string, fields ...string) *FilterSpecBuilder {
	b.spec.Search = &Search{Fields: fields, Value: value}

	return b
}

func (b *FilterSpecBuilder) DateRange(field, from, to string) *FilterSpecBuilder {
	b.spec.Date = &DateRange{Field: field, From: from, To: to}

	return b
}

func (b *FilterSpecBuilder) IncludeDeleted(include bool) *FilterSpecBuilder {
	b.spec.IncludeDeleted = include

	return b
}

func (b *FilterSpecBuilder) IsNull(field string, isNull bool) *FilterSpecBuilder {
	b.spec.IsNull = &NullCheck{Field: field, IsNull: isNull}

	return b
}

func (b *FilterSpecBuilder) GroupBy(field string) *FilterSpecBuilder {
	if b.spec.GroupBy == nil {
		b.spec.GroupBy = &Grouping{}
	}

	b.spec.GroupBy.Field = field

	return b
}

// Having attaches a condition such as "COUNT(*) >" compared against a bound value.
func (b *FilterSpecBuilder) Having(condition string, value any) *FilterSpecBuilder {
	if b.spec.GroupBy == nil {
		b.spec.GroupBy = &Grouping{}
	}

	b.spec.GroupBy.Having = condition
	b.spec.GroupBy.Value = value

	return b
}

func (b *FilterSpecBuilder) Build() FilterSpec {
	return b.spec.Clone()
}
