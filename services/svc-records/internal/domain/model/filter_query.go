package model

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	QueryParamOrderBy        = "orderBy"
	QueryParamSelect         = "select"
	QueryParamLimit          = "limit"
	QueryParamOffset         = "offset"
	QueryParamSearch         = "search"
	QueryParamSearchFields   = "searchFields"
	QueryParamDateField      = "dateField"
	QueryParamDateFrom       = "dateFrom"
	QueryParamDateTo         = "dateTo"
	QueryParamIncludeDeleted = "includeDeleted"
	QueryParamIsNullField    = "isNullField"
	QueryParamIsNull         = "isNull"
	QueryParamGroupBy        = "groupBy"
	QueryParamHaving         = "having"
	QueryParamHavingValue    = "havingValue"

	filtersPrefix = "filters["
	filtersSuffix = "]"
)

// ParseFilterQuery reads a FilterSpec from URL query parameters, e.g.
// ?filters[username]=alice&orderBy=id:DESC,username&limit=10&search=al&searchFields=username,email.
func ParseFilterQuery(values url.Values) (FilterSpec, error) {
	builder := NewFilterSpec()
	violations := NewValidationErrors()

	for _, key := range slices.Sorted(maps.Keys(values)) {
		if !strings.HasPrefix(key, filtersPrefix) || !strings.HasSuffix(key, filtersSuffix) {
			continue
		}

		field := strings.TrimSuffix(strings.TrimPrefix(key, filtersPrefix), filtersSuffix)
		if field == "" {
			violations.Add(key, "filter field name is empty", "invalid_filter")

			continue
		}

		builder.Where(field, values.Get(key))
	}

	for _, term := range splitList(values.Get(QueryParamOrderBy)) {
		field, direction, _ := strings.Cut(term, ":")
		builder.OrderBy(field, SortDirection(direction))
	}

	if fields := splitList(values.Get(QueryParamSelect)); len(fields) > 0 {
		builder.Select(fields...)
	}

	if raw := values.Get(QueryParamLimit); raw != "" {
		limit, err := parseCount(raw)
		if err != nil {
			violations.Add(QueryParamLimit, "must be a non-negative integer", "invalid_pagination")
		}

		var offset uint64

		if rawOffset := values.Get(QueryParamOffset); rawOffset != "" {
			offset, err = parseCount(rawOffset)
			if err != nil {
				violations.Add(QueryParamOffset, "must be a non-negative integer", "invalid_pagination")
			}
		}

		builder.Paginate(limit, offset)
	}

	if values.Has(QueryParamSearch) || values.Has(QueryParamSearchFields) {
		builder.Search(values.Get(QueryParamSearch), splitList(values.Get(QueryParamSearchFields))...)
	}

	if values.Has(QueryParamDateField) {
		builder.DateRange(values.Get(QueryParamDateField), values.Get(QueryParamDateFrom), values.Get(QueryParamDateTo))
	}

	if raw := values.Get(QueryParamIncludeDeleted); raw != "" {
		include, err := cast.ToBoolE(raw)
		if err != nil {
			violations.Add(QueryParamIncludeDeleted, "must be a boolean", "invalid_boolean")
		}

		builder.IncludeDeleted(include)
	}

	if field := values.Get(QueryParamIsNullField); field != "" {
		isNull := true

		if raw := values.Get(QueryParamIsNull); raw != "" {
			parsed, err := cast.ToBoolE(raw)
			if err != nil {
				violations.Add(QueryParamIsNull, "must be a boolean", "invalid_boolean")
			}

			isNull = parsed
		}

		builder.IsNull(field, isNull)
	}

	if field := values.Get(QueryParamGroupBy); field != "" {
		builder.GroupBy(field)

		if having := values.Get(QueryParamHaving); having != "" {
			builder.Having(having, values.Get(QueryParamHavingValue))
		}
	}

	if violations.HasErrors() {
		return FilterSpec{}, violations
	}

	return builder.Build(), nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseCount reads pagination values as plain base 10.
func parseCount(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}
