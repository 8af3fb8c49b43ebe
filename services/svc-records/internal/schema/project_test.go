package schema_test

import (
	"testing"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		schema   *openapi3.Schema
		record   model.Record
		expected model.Record
	}{
		{
			name:   "drops fields that are not exposed",
			schema: userOutput(),
			record: model.Record{
				"id":            int64(1),
				"username":      "alice",
				"password_hash": "secret",
				"deleted_at":    nil,
			},
			expected: model.Record{"id": int64(1), "username": "alice"},
		},
		{
			name:   "projects nested relations",
			schema: userOutput(),
			record: model.Record{
				"id":      int64(1),
				"profile": model.Record{"id": int64(3), "bio": "hi", "user_id": int64(1)},
			},
			expected: model.Record{"id": int64(1), "profile": model.Record{"bio": "hi"}},
		},
		{
			name:     "keeps a nil relation",
			schema:   userOutput(),
			record:   model.Record{"id": int64(1), "profile": nil},
			expected: model.Record{"id": int64(1), "profile": nil},
		},
		{
			name:     "schema without properties exposes nothing",
			schema:   openapi3.NewObjectSchema(),
			record:   model.Record{"id": int64(1), "password_hash": "x"},
			expected: model.Record{},
		},
		{
			name: "nested schema without properties exposes nothing",
			schema: openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewInt64Schema()).
				WithProperty("profile", openapi3.NewObjectSchema()),
			record: model.Record{
				"id":      int64(1),
				"profile": model.Record{"bio": "b", "secret": "s"},
			},
			expected: model.Record{"id": int64(1), "profile": model.Record{}},
		},
		{
			name:     "nil schema exposes everything",
			schema:   nil,
			record:   model.Record{"id": int64(1), "password_hash": "secret"},
			expected: model.Record{"id": int64(1), "password_hash": "secret"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, schema.Project(tc.schema, tc.record))
		})
	}
}

func TestProject_NeverLeaksUndeclaredFields(t *testing.T) {
	t.Parallel()

	output := userOutput()
	records := []model.Record{
		{"id": int64(1), "username": "alice", "email": "a@x.com", "secret": 1},
		{"id": int64(2), "username": "bob", "token": "t", "profile": model.Record{"bio": "b", "private": true}},
	}

	for _, projected := range schema.ProjectAll(output, records) {
		for field, value := range projected {
			require.Contains(t, output.Properties, field)

			if nested, ok := value.(model.Record); ok {
				for nestedField := range nested {
					require.Contains(t, output.Properties[field].Value.Properties, nestedField)
				}
			}
		}
	}
}
