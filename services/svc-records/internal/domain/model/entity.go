package model

import (
	"errors"
	"fmt"
	"slices"
)

// RootAlias is the table alias every entity query is scoped to.
const RootAlias = "root"

type IDKind uint8

const (
	IDKindInt IDKind = iota
	IDKindString
)

var DefaultRelationSelectFields = []string{"id", "bio"}

type (
	// EntityMetadata is the capability every persisted entity type exposes to the query engine.
	EntityMetadata interface {
		EntityName() string
		Relations() []string
	}

	// Relation describes an eagerly joined association: relation.ForeignKey = root.LocalKey.
	Relation struct {
		Name       string
		Table      string
		LocalKey   string
		ForeignKey string
		Columns    []string
	}

	// Entity binds a named record type to its table, identifier and relations.
	Entity struct {
		Name                 string
		Table                string
		IDColumn             string
		IDKind               IDKind
		SoftDeleteColumn     string
		UpdatedAtColumn      string
		Joins                []Relation
		RelationSelectFields []string
	}
)

func (e Entity) EntityName() string {
	return e.Name
}

func (e Entity) Relations() []string {
	names := make([]string, 0, len(e.Joins))
	for _, relation := range e.Joins {
		names = append(names, relation.Name)
	}

	return names
}

func (e Entity) Relation(name string) (Relation, bool) {
	index := slices.IndexFunc(e.Joins, func(r Relation) bool {
		return r.Name == name
	})
	if index < 0 {
		return Relation{}, false
	}

	return e.Joins[index], true
}

func (e Entity) SupportsSoftDelete() bool {
	return e.SoftDeleteColumn != ""
}

// WritableFields drops the identifier, relation and bookkeeping keys from r.
func (e Entity) WritableFields(r Record) Record {
	excluded := append(e.Relations(), e.PrimaryKey())

	if e.SoftDeleteColumn != "" {
		excluded = append(excluded, e.SoftDeleteColumn)
	}

	if e.UpdatedAtColumn != "" {
		excluded = append(excluded, e.UpdatedAtColumn)
	}

	return r.Without(excluded...)
}

func (e Entity) PrimaryKey() string {
	if e.IDColumn == "" {
		return "id"
	}

	return e.IDColumn
}

// SelectFieldsPerRelation returns the sub-fields always projected for each relation.
func (e Entity) SelectFieldsPerRelation() []string {
	if len(e.RelationSelectFields) == 0 {
		return DefaultRelationSelectFields
	}

	return e.RelationSelectFields
}

func (e Entity) Validate() error {
	var errs []error

	if e.Name == "" {
		errs = append(errs, errors.New("entity name is required"))
	}

	if e.Table == "" {
		errs = append(errs, fmt.Errorf("entity %q: table is required", e.Name))
	}

	seen := make(map[string]struct{}, len(e.Joins))

	for _, relation := range e.Joins {
		switch {
		case relation.Name == "" || relation.Table == "":
			errs = append(errs, fmt.Errorf("entity %q: relation name and table are required", e.Name))
		case relation.Name == RootAlias:
			errs = append(errs, fmt.Errorf("entity %q: relation may not be named %q", e.Name, RootAlias))
		case relation.LocalKey == "" || relation.ForeignKey == "":
			errs = append(errs, fmt.Errorf("entity %q: relation %q needs both join keys", e.Name, relation.Name))
		}

		if _, ok := seen[relation.Name]; ok {
			errs = append(errs, fmt.Errorf("entity %q: duplicate relation %q", e.Name, relation.Name))
		}

		seen[relation.Name] = struct{}{}
	}

	return errors.Join(errs...)
}
