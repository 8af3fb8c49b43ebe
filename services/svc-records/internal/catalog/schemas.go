package catalog

import "github.com/getkin/kin-openapi/openapi3"

const emailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`

func userCreateInput() *openapi3.Schema {
	s := userUpdateInput()
	s.Required = []string{"username", "email"}

	return s
}

func userUpdateInput() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("username", openapi3.NewStringSchema().WithMinLength(3).WithMaxLength(64)).
		WithProperty("email", openapi3.NewStringSchema().WithPattern(emailPattern).WithMaxLength(255)).
		WithProperty("age", openapi3.NewIntegerSchema().WithMin(0))
}

func userOutput() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("username", openapi3.NewStringSchema()).
		WithProperty("email", openapi3.NewStringSchema()).
		WithProperty("age", openapi3.NewIntegerSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema()).
		WithProperty("deleted_at", openapi3.NewDateTimeSchema()).
		WithProperty("profile", openapi3.NewObjectSchema().
			WithProperty("id", openapi3.NewInt64Schema()).
			WithProperty("bio", openapi3.NewStringSchema()))
}

func postCreateInput() *openapi3.Schema {
	s := postUpdateInput().
		WithProperty("author_id", openapi3.NewInt64Schema().WithMin(1))
	s.Required = []string{"title", "author_id"}

	return s
}

func postUpdateInput() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(200)).
		WithProperty("body", openapi3.NewStringSchema()).
		WithProperty("published", openapi3.NewBoolSchema())
}

func postOutput() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("author_id", openapi3.NewInt64Schema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("body", openapi3.NewStringSchema()).
		WithProperty("published", openapi3.NewBoolSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("deleted_at", openapi3.NewDateTimeSchema()).
		WithProperty("author", openapi3.NewObjectSchema().
			WithProperty("id", openapi3.NewInt64Schema()).
			WithProperty("username", openapi3.NewStringSchema()))
}
