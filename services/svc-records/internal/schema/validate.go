package schema

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/getkin/kin-openapi/openapi3"
)

const (
	codeUnknownField = "additionalProperties"
	payloadField     = "payload"
)

// Validate checks payload against an object schema. Fields the schema does not
// declare are violations, never dropped. Every violation is reported in one
// *model.ValidationErrors.
func Validate(schema *openapi3.Schema, payload model.Record) error {
	violations := model.NewValidationErrors()
	declared := make(map[string]any, len(payload))

	for _, field := range slices.Sorted(maps.Keys(payload)) {
		if _, ok := schema.Properties[field]; !ok {
			violations.Add(field, "field is not allowed", codeUnknownField)

			continue
		}

		declared[field] = payload[field]
	}

	if err := schema.VisitJSON(declared, openapi3.MultiErrors()); err != nil {
		collectViolations(err, violations)
	}

	if violations.HasErrors() {
		return violations
	}

	return nil
}

func collectViolations(err error, violations *model.ValidationErrors) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, child := range multi {
			collectViolations(child, violations)
		}

		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		violations.Add(payloadField, err.Error(), "invalid")

		return
	}

	field := strings.Join(schemaErr.JSONPointer(), ".")
	if field == "" {
		field = payloadField
	}

	violations.Add(field, schemaErr.Reason, schemaErr.SchemaField)
}
