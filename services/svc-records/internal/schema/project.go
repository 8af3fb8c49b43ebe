package schema

import (
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/getkin/kin-openapi/openapi3"
)

// Project keeps only the fields an output schema declares, descending into
// nested object properties. Only a nil schema exposes everything; an object
// schema without properties exposes nothing.
func Project(schema *openapi3.Schema, record model.Record) model.Record {
	if record == nil {
		return nil
	}

	if schema == nil {
		return record.Clone()
	}

	projected := make(model.Record, len(schema.Properties))

	for field, ref := range schema.Properties {
		value, ok := record[field]
		if !ok {
			continue
		}

		projected[field] = projectValue(ref, value)
	}

	return projected
}

func ProjectAll(schema *openapi3.Schema, records []model.Record) []model.Record {
	projected := make([]model.Record, 0, len(records))
	for _, record := range records {
		projected = append(projected, Project(schema, record))
	}

	return projected
}

func projectValue(ref *openapi3.SchemaRef, value any) any {
	if ref == nil || ref.Value == nil {
		return value
	}

	switch typed := value.(type) {
	case model.Record:
		return Project(ref.Value, typed)
	case map[string]any:
		return Project(ref.Value, typed)
	case []model.Record:
		if ref.Value.Items == nil {
			return typed
		}

		return ProjectAll(ref.Value.Items.Value, typed)
	default:
		return value
	}
}
