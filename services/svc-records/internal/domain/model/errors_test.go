package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lookup: %w", model.NewNotFoundError("users", int64(999)))

	require.ErrorIs(t, err, model.ErrNotFound)
	require.EqualError(t, err, "lookup: users with id 999 not found")

	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "users", notFound.Entity)
	require.Equal(t, int64(999), notFound.ID)
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	violations := model.NewValidationErrors()
	require.False(t, violations.HasErrors())
	require.EqualError(t, violations, "validation failed")

	violations.Add("username", "minimum string length is 3", "minLength")
	violations.Add("nickname", "property is not allowed", "additionalProperties")

	require.True(t, violations.HasErrors())
	require.ErrorIs(t, violations, model.ErrValidation)
	require.Equal(t, []string{"username", "nickname"}, violations.Fields())
	require.EqualError(t, violations,
		"validation failed: username: minimum string length is 3; nickname: property is not allowed")
}

func TestConfigurationMissingError(t *testing.T) {
	t.Parallel()

	err := &model.ConfigurationMissingError{Owner: "users", Operation: "create"}

	require.ErrorIs(t, err, model.ErrConfigurationMissing)
	require.EqualError(t, err, "no input schema registered for users.create")
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "not found", err: model.NewNotFoundError("users", 1), expected: true},
		{name: "validation", err: model.NewValidationErrors(), expected: true},
		{name: "invalid id", err: fmt.Errorf("%w: x", model.ErrInvalidID), expected: true},
		{name: "duplicate", err: model.ErrDuplicateRecord, expected: true},
		{name: "soft delete unsupported", err: model.ErrSoftDeleteUnsupported, expected: true},
		{name: "database", err: fmt.Errorf("%w: boom", model.ErrDatabaseQuery), expected: false},
		{name: "arbitrary", err: errors.New("boom"), expected: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, model.IsClientError(tc.err))
		})
	}
}
