package schema_test

import (
	"bytes"
	"testing"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Inbound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		owner       string
		operation   schema.Operation
		payload     model.Record
		expectedErr error
	}{
		{
			name:      "valid payload passes",
			owner:     "users",
			operation: schema.OpCreate,
			payload:   model.Record{"username": "alice", "email": "a@x.com"},
		},
		{
			name:        "invalid payload fails validation",
			owner:       "users",
			operation:   schema.OpCreate,
			payload:     model.Record{"username": "al", "email": "a@x.com"},
			expectedErr: model.ErrValidation,
		},
		{
			name:        "create without input schema fails fast",
			owner:       "posts",
			operation:   schema.OpCreate,
			payload:     model.Record{"title": "hello"},
			expectedErr: model.ErrConfigurationMissing,
		},
		{
			name:        "update without input schema fails fast",
			owner:       "users",
			operation:   schema.OpUpdate,
			payload:     model.Record{"username": "alice"},
			expectedErr: model.ErrConfigurationMissing,
		},
		{
			name:      "non write operation without schema passes",
			owner:     "users",
			operation: schema.OpDelete,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pipeline := schema.NewPipeline(usersRegistry(), logger.NewTestLogger())

			payload, err := pipeline.Inbound(t.Context(), tc.owner, tc.operation, "", tc.payload)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Nil(t, payload)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.payload, payload)
		})
	}
}

func TestPipeline_InboundMissingConfigurationIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	pipeline := schema.NewPipeline(usersRegistry(), logger.NewBufferedTestLogger(&buf))

	_, err := pipeline.Inbound(t.Context(), "posts", schema.OpCreate, "Create", model.Record{})

	var missing *model.ConfigurationMissingError

	require.ErrorAs(t, err, &missing)
	require.Equal(t, "posts", missing.Owner)
	require.Equal(t, "create", missing.Operation)
	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), "no input schema bound")
}

func TestPipeline_Outbound(t *testing.T) {
	t.Parallel()

	record := model.Record{"id": int64(1), "username": "alice", "email": "a@x.com"}
	records := []model.Record{record, {"id": int64(2), "username": "bob", "email": "b@x.com"}}

	cases := []struct {
		name        string
		owner       string
		operation   schema.Operation
		method      string
		result      any
		expected    any
		transformed bool
	}{
		{
			name:      "single record is projected",
			owner:     "users",
			operation: schema.OpFindOne,
			result:    record,
			expected:  model.Record{"id": int64(1), "username": "alice"},
		},
		{
			name:      "every record of a list is projected",
			owner:     "users",
			operation: schema.OpFindAll,
			result:    records,
			expected: []model.Record{
				{"id": int64(1), "username": "alice"},
				{"id": int64(2), "username": "bob"},
			},
		},
		{
			name:      "method transform wraps the projected list",
			owner:     "users",
			operation: schema.OpFindAll,
			method:    "Query",
			result:    records,
			expected: map[string]any{"data": []model.Record{
				{"id": int64(1), "username": "alice"},
				{"id": int64(2), "username": "bob"},
			}},
			transformed: true,
		},
		{
			name:      "unbound output passes records through",
			owner:     "posts",
			operation: schema.OpFindOne,
			result:    model.Record{"id": int64(5), "title": "hello"},
			expected:  model.Record{"id": int64(5), "title": "hello"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pipeline := schema.NewPipeline(usersRegistry(), logger.NewTestLogger())

			output, err := pipeline.Shape(t.Context(), tc.owner, tc.operation, tc.method, tc.result)
			require.NoError(t, err)
			require.Equal(t, tc.expected, output.Body)
			require.Equal(t, tc.transformed, output.Transformed)

			body, err := pipeline.Outbound(t.Context(), tc.owner, tc.operation, tc.method, tc.result)
			require.NoError(t, err)
			require.Equal(t, tc.expected, body)
		})
	}
}

func TestPipeline_OutboundIdentityFallbackWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	pipeline := schema.NewPipeline(usersRegistry(), logger.NewBufferedTestLogger(&buf))

	_, err := pipeline.Outbound(t.Context(), "posts", schema.OpFindAll, "", []model.Record{})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), `"source":"identity"`)
}

func TestPipeline_OutboundRejectsUnknownResult(t *testing.T) {
	t.Parallel()

	pipeline := schema.NewPipeline(usersRegistry(), logger.NewTestLogger())

	_, err := pipeline.Outbound(t.Context(), "users", schema.OpFindOne, "", 42)
	require.ErrorIs(t, err, model.ErrUnexpected)
}
