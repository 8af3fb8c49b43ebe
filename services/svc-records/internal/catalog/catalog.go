// Package catalog declares the entities served by svc-records and the schema
// bindings applied to their operations.
package catalog

import (
	"errors"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/schema"
)

const (
	Users = "users"
	Posts = "posts"

	// MethodQuery names the filter-by-body listing, which answers with a results envelope.
	MethodQuery = "Query"
)

// Entities returns the registered entity metadata. relationSelectFields is the
// default sub-field projection for relations that do not declare their own.
func Entities(relationSelectFields []string) ([]model.Entity, error) {
	entities := []model.Entity{
		{
			Name:                 Users,
			Table:                "users",
			IDKind:               model.IDKindInt,
			SoftDeleteColumn:     "deleted_at",
			UpdatedAtColumn:      "updated_at",
			RelationSelectFields: relationSelectFields,
			Joins: []model.Relation{
				{Name: "profile", Table: "profiles", LocalKey: "id", ForeignKey: "user_id"},
			},
		},
		{
			Name:                 Posts,
			Table:                "posts",
			IDKind:               model.IDKindInt,
			SoftDeleteColumn:     "deleted_at",
			RelationSelectFields: []string{"id", "username"},
			Joins: []model.Relation{
				{Name: "author", Table: "users", LocalKey: "author_id", ForeignKey: "id"},
			},
		},
	}

	errs := make([]error, 0, len(entities))
	for _, entity := range entities {
		errs = append(errs, entity.Validate())
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return entities, nil
}

// Register binds every catalog schema and seals the registry.
func Register(registry *schema.Registry) error {
	bindings := []struct {
		owner     string
		operation schema.Operation
		binding   schema.Binding
	}{
		{Users, schema.OpCreate, schema.Binding{Input: userCreateInput(), Output: userOutput()}},
		{Users, schema.OpUpdate, schema.Binding{Input: userUpdateInput(), Output: userOutput()}},
		{Users, schema.OpFindOne, schema.Binding{Output: userOutput()}},
		{Users, schema.OpFindAll, schema.Binding{Output: userOutput()}},
		{Posts, schema.OpCreate, schema.Binding{Input: postCreateInput(), Output: postOutput()}},
		{Posts, schema.OpUpdate, schema.Binding{Input: postUpdateInput(), Output: postOutput()}},
		{Posts, schema.OpFindOne, schema.Binding{Output: postOutput()}},
		{Posts, schema.OpFindAll, schema.Binding{Output: postOutput()}},
	}

	errs := make([]error, 0, len(bindings)+2)

	for _, b := range bindings {
		errs = append(errs, registry.BindClass(b.owner, b.operation, b.binding))
	}

	for _, owner := range []string{Users, Posts} {
		errs = append(errs, registry.BindMethod(owner, MethodQuery, schema.Binding{Transform: resultsEnvelope}))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	registry.Seal()

	return nil
}

// resultsEnvelope wraps a projected listing as {"results": [...], "total": n}.
func resultsEnvelope(result any) any {
	total := 0
	if records, ok := result.([]model.Record); ok {
		total = len(records)
	}

	return map[string]any{
		"results": result,
		"total":   total,
	}
}
