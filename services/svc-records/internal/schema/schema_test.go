package schema_test

import (
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

func userInput() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("username", openapi3.NewStringSchema().WithMinLength(3)).
		WithProperty("email", openapi3.NewStringSchema().WithPattern(`^[^@\s]+@[^@\s]+$`)).
		WithProperty("age", openapi3.NewIntegerSchema())
	s.Required = []string{"username", "email"}

	return s
}

func userOutput() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("username", openapi3.NewStringSchema()).
		WithProperty("profile", openapi3.NewObjectSchema().
			WithProperty("bio", openapi3.NewStringSchema()))
}

func envelope(result any) any {
	return map[string]any{"data": result}
}

func usersRegistry() *schema.Registry {
	registry := schema.NewRegistry()

	_ = registry.BindClass("users", schema.OpCreate, schema.Binding{Input: userInput(), Output: userOutput()})
	_ = registry.BindClass("users", schema.OpFindOne, schema.Binding{Output: userOutput()})
	_ = registry.BindClass("users", schema.OpFindAll, schema.Binding{Output: userOutput()})
	_ = registry.BindMethod("users", "Query", schema.Binding{Transform: envelope})

	registry.Seal()

	return registry
}
