package model

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Record is one persisted row keyed by column name; joined relations are nested records.
type Record map[string]any

func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}

	return maps.Clone(r)
}

// Merge returns a copy of r with every field of patch written over it.
func (r Record) Merge(patch Record) Record {
	merged := r.Clone()
	maps.Copy(merged, patch)

	return merged
}

// Without returns a copy of r minus the named fields.
func (r Record) Without(fields ...string) Record {
	result := r.Clone()
	for _, field := range fields {
		delete(result, field)
	}

	return result
}

// ParseID coerces a string or numeric identifier into the kind the store compares against.
func ParseID(raw any, kind IDKind) (any, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: identifier is required", ErrInvalidID)
	}

	switch kind {
	case IDKindString:
		id, err := cast.ToStringE(raw)
		if err != nil || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, raw)
		}

		return strings.TrimSpace(id), nil
	default:
		id, err := parseIntID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, raw)
		}

		return id, nil
	}
}

// parseIntID reads strings as base 10 the way Postgres casts text to int8,
// and refuses floats that carry a fractional part.
func parseIntID(raw any) (int64, error) {
	switch typed := raw.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
	case float64:
		return wholeFloat(typed)
	case float32:
		return wholeFloat(float64(typed))
	default:
		return cast.ToInt64E(raw)
	}
}

func wholeFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}

	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v overflows int64", f)
	}

	return int64(f), nil
}

// NestRelations folds "relation.column" keys produced by joined selects into nested records.
// A relation whose joined columns are all NULL is reported as nil.
func NestRelations(row map[string]any, relations []string) Record {
	record := make(Record, len(row))
	nested := make(map[string]Record, len(relations))

	for _, relation := range relations {
		nested[relation] = nil
	}

	for key, value := range row {
		relation, column, found := strings.Cut(key, ".")
		if _, isRelation := nested[relation]; !found || !isRelation {
			record[key] = value

			continue
		}

		if nested[relation] == nil {
			nested[relation] = Record{}
		}

		nested[relation][column] = value
	}

	for relation, values := range nested {
		if allNil(values) {
			record[relation] = nil

			continue
		}

		record[relation] = values
	}

	return record
}

func allNil(values Record) bool {
	for _, value := range values {
		if value != nil {
			return false
		}
	}

	return true
}
