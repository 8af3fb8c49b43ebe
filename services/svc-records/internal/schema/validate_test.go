package schema_test

import (
	"testing"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		payload        model.Record
		expectedFields []string
		expectedCodes  []string
	}{
		{
			name:    "valid payload",
			payload: model.Record{"username": "alice", "email": "a@x.com"},
		},
		{
			name:           "username shorter than minimum",
			payload:        model.Record{"username": "al", "email": "a@x.com"},
			expectedFields: []string{"username"},
			expectedCodes:  []string{"minLength"},
		},
		{
			name:           "undeclared field on an otherwise valid payload",
			payload:        model.Record{"username": "alice", "email": "a@x.com", "nickname": "ali"},
			expectedFields: []string{"nickname"},
			expectedCodes:  []string{"additionalProperties"},
		},
		{
			name:           "every violation is reported",
			payload:        model.Record{"username": "al", "email": "nope", "admin": true},
			expectedFields: []string{"admin", "username", "email"},
		},
		{
			name:           "wrong type",
			payload:        model.Record{"username": "alice", "email": "a@x.com", "age": "old"},
			expectedFields: []string{"age"},
			expectedCodes:  []string{"type"},
		},
		{
			name:           "missing required fields",
			payload:        model.Record{},
			expectedFields: []string{"username", "email"},
			expectedCodes:  []string{"required", "required"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := schema.Validate(userInput(), tc.payload)

			if tc.expectedFields == nil {
				require.NoError(t, err)

				return
			}

			var violations *model.ValidationErrors

			require.ErrorAs(t, err, &violations)
			require.ErrorIs(t, err, model.ErrValidation)
			require.ElementsMatch(t, tc.expectedFields, violations.Fields())

			if tc.expectedCodes == nil {
				return
			}

			codes := make([]string, 0, len(violations.Errors))
			for _, violation := range violations.Errors {
				codes = append(codes, violation.Code)
			}

			require.ElementsMatch(t, tc.expectedCodes, codes)
		})
	}
}

func TestValidate_UsernameViolationIsDescribed(t *testing.T) {
	t.Parallel()

	err := schema.Validate(userInput(), model.Record{"username": "al", "email": "a@x.com"})

	var violations *model.ValidationErrors

	require.ErrorAs(t, err, &violations)
	require.Len(t, violations.Errors, 1)
	require.Equal(t, "username", violations.Errors[0].Field)
	require.Contains(t, violations.Errors[0].Message, "3")
}
