package model

import (
	"maps"
	"slices"
	"strings"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type (
	SortField struct {
		Field     string        `json:"field"`
		Direction SortDirection `json:"order,omitempty"`
	}

	Pagination struct {
		Limit  uint64 `json:"limit,omitempty"`
		Offset uint64 `json:"offset,omitempty"`
	}

	Search struct {
		Fields []string `json:"fields,omitempty"`
		Value  string   `json:"value,omitempty"`
	}

	DateRange struct {
		Field string `json:"field,omitempty"`
		From  string `json:"from,omitempty"`
		To    string `json:"to,omitempty"`
	}

	NullCheck struct {
		Field  string `json:"field,omitempty"`
		IsNull bool   `json:"isNull"`
	}

	Grouping struct {
		Field  string `json:"field,omitempty"`
		Having string `json:"having,omitempty"`
		Value  any    `json:"value,omitempty"`
	}

	// FilterSpec is the declarative shape of a find-all request. Every clause is optional.
	FilterSpec struct {
		Filters        map[string]any `json:"filters,omitempty"`
		OrderBy        []SortField    `json:"orderBy,omitempty"`
		SelectFields   []string       `json:"selectFields,omitempty"`
		Pagination     *Pagination    `json:"pagination,omitempty"`
		Search         *Search        `json:"search,omitempty"`
		Date           *DateRange     `json:"date,omitempty"`
		IncludeDeleted bool           `json:"includeDeleted,omitempty"`
		IsNull         *NullCheck     `json:"isNull,omitempty"`
		GroupBy        *Grouping      `json:"groupBy,omitempty"`
	}
)

// Normalize maps any accepted spelling onto ASC or DESC, defaulting to ASC.
func (d SortDirection) Normalize() SortDirection {
	switch strings.ToUpper(strings.TrimSpace(string(d))) {
	case "DESC", "DESCENDING", "-1":
		return SortDesc
	default:
		return SortAsc
	}
}

func (s FilterSpec) Limit() uint64 {
	if s.Pagination == nil {
		return 0
	}

	return s.Pagination.Limit
}

func (s FilterSpec) Offset() uint64 {
	if s.Pagination == nil || s.Pagination.Limit == 0 {
		return 0
	}

	return s.Pagination.Offset
}

// Clone returns a copy sharing no mutable state with s.
func (s FilterSpec) Clone() FilterSpec {
	clone := FilterSpec{
		Filters:        maps.Clone(s.Filters),
		OrderBy:        slices.Clone(s.OrderBy),
		SelectFields:   slices.Clone(s.SelectFields),
		IncludeDeleted: s.IncludeDeleted,
	}

	if s.Pagination != nil {
		pagination := *s.Pagination
		clone.Pagination = &pagination
	}

	if s.Search != nil {
		search := Search{Fields: slices.Clone(s.Search.Fields), Value: s.Search.Value}
		clone.Search = &search
	}

	if s.Date != nil {
		date := *s.Date
		clone.Date = &date
	}

	if s.IsNull != nil {
		isNull := *s.IsNull
		clone.IsNull = &isNull
	}

	if s.GroupBy != nil {
		groupBy := *s.GroupBy
		clone.GroupBy = &groupBy
	}

	return clone
}
