package services_test

import (
	"testing"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/services"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	t.Parallel()

	users := services.NewRecordsService(usersEntity(), newFakeRepository(), logger.NewTestLogger())
	posts := services.NewRecordsService(model.Entity{Name: "posts", Table: "posts"}, newFakeRepository(), logger.NewTestLogger())

	directory, err := services.NewDirectory(users, posts)
	require.NoError(t, err)
	require.Equal(t, []string{"posts", "users"}, directory.Entities())

	service, err := directory.Service("users")
	require.NoError(t, err)
	require.Equal(t, "users", service.Entity().Name)

	_, err = directory.Service("comments")
	require.ErrorIs(t, err, model.ErrUnknownEntity)

	_, err = services.NewDirectory(users, users)
	require.Error(t, err)
}
