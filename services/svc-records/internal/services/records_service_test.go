package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/services"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu      sync.Mutex
	records map[int64]model.Record
	nextID  int64
	failure error
	updates []model.Record
}

func newFakeRepository(records ...model.Record) *fakeRepository {
	repo := &fakeRepository{records: make(map[int64]model.Record)}
	for _, record := range records {
		repo.nextID++
		stored := record.Clone()
		stored["id"] = repo.nextID
		repo.records[repo.nextID] = stored
	}

	return repo
}

func (f *fakeRepository) Insert(_ context.Context, _ model.Entity, values model.Record) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failure != nil {
		return nil, f.failure
	}

	f.nextID++
	stored := values.Clone()
	stored["id"] = f.nextID
	stored["profile"] = nil
	f.records[f.nextID] = stored

	return stored.Clone(), nil
}

func (f *fakeRepository) FindByID(_ context.Context, entity model.Entity, id any) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failure != nil {
		return nil, f.failure
	}

	record, ok := f.records[id.(int64)]
	if !ok {
		return nil, model.NewNotFoundError(entity.Name, id)
	}

	return record.Clone(), nil
}

func (f *fakeRepository) FindAll(_ context.Context, _ model.Entity, _ model.FilterSpec) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failure != nil {
		return nil, f.failure
	}

	records := make([]model.Record, 0, len(f.records))
	for id := int64(1); id <= f.nextID; id++ {
		if record, ok := f.records[id]; ok {
			records = append(records, record.Clone())
		}
	}

	return records, nil
}

func (f *fakeRepository) Update(_ context.Context, entity model.Entity, id any, values model.Record) (model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, values.Clone())

	record, ok := f.records[id.(int64)]
	if !ok {
		return nil, model.NewNotFoundError(entity.Name, id)
	}

	updated := record.Merge(values)
	f.records[id.(int64)] = updated

	return updated.Clone(), nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, entity model.Entity, id any) error {
	return f.remove(entity, id)
}

func (f *fakeRepository) Restore(_ context.Context, _ model.Entity, _ any) error {
	return f.failure
}

func (f *fakeRepository) Delete(_ context.Context, entity model.Entity, id any) error {
	return f.remove(entity, id)
}

func (f *fakeRepository) remove(entity model.Entity, id any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failure != nil {
		return f.failure
	}

	if _, ok := f.records[id.(int64)]; !ok {
		return model.NewNotFoundError(entity.Name, id)
	}

	delete(f.records, id.(int64))

	return nil
}

func usersEntity() model.Entity {
	return model.Entity{
		Name:             "users",
		Table:            "users",
		SoftDeleteColumn: "deleted_at",
		UpdatedAtColumn:  "updated_at",
		Joins: []model.Relation{
			{Name: "profile", Table: "profiles", LocalKey: "id", ForeignKey: "user_id"},
		},
	}
}

func alice() model.Record {
	return model.Record{"username": "alice", "email": "alice@example.com", "age": int64(30)}
}

func TestRecordsService_CreateThenFindOne(t *testing.T) {
	t.Parallel()

	service := services.NewRecordsService(usersEntity(), newFakeRepository(), logger.NewTestLogger())

	created, err := service.Create(context.Background(), alice())
	require.NoError(t, err)

	found, err := service.FindOne(context.Background(), created["id"])
	require.NoError(t, err)
	require.Equal(t, created, found)
}

func TestRecordsService_FindOneResolvesStringAndNumericIDs(t *testing.T) {
	t.Parallel()

	service := services.NewRecordsService(usersEntity(), newFakeRepository(alice()), logger.NewTestLogger())

	cases := []struct {
		name string
		id   any
	}{
		{name: "integer", id: 1},
		{name: "int64", id: int64(1)},
		{name: "float", id: float64(1)},
		{name: "string", id: "1"},
		{name: "padded string", id: " 1 "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			record, err := service.FindOne(context.Background(), tc.id)
			require.NoError(t, err)
			require.Equal(t, "alice", record["username"])
		})
	}
}

func TestRecordsService_FindOneMissing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	service := services.NewRecordsService(usersEntity(), newFakeRepository(), logger.NewBufferedTestLogger(&buf))

	_, err := service.FindOne(context.Background(), 999)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.EqualError(t, err, "users with id 999 not found")
	require.Zero(t, buf.Len())
}

func TestRecordsService_InvalidID(t *testing.T) {
	t.Parallel()

	service := services.NewRecordsService(usersEntity(), newFakeRepository(alice()), logger.NewTestLogger())

	_, err := service.FindOne(context.Background(), "abc")
	require.ErrorIs(t, err, model.ErrInvalidID)

	_, err = service.Update(context.Background(), nil, model.Record{"age": 31})
	require.ErrorIs(t, err, model.ErrInvalidID)

	require.ErrorIs(t, service.Delete(context.Background(), "x1"), model.ErrInvalidID)
}

func TestRecordsService_UpdateMergesOverExisting(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository(alice())
	service := services.NewRecordsService(usersEntity(), repo, logger.NewTestLogger())

	updated, err := service.Update(context.Background(), "1", model.Record{"age": int64(31)})
	require.NoError(t, err)
	require.Equal(t, "alice", updated["username"])
	require.Equal(t, "alice@example.com", updated["email"])
	require.Equal(t, int64(31), updated["age"])

	require.Len(t, repo.updates, 1)
	require.NotContains(t, repo.updates[0], "id")
	require.Equal(t, "alice", repo.updates[0]["username"])
}

func TestRecordsService_UpdateMissing(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	service := services.NewRecordsService(usersEntity(), repo, logger.NewTestLogger())

	_, err := service.Update(context.Background(), 7, model.Record{"age": 1})
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Empty(t, repo.updates)
}

func TestRecordsService_Delete(t *testing.T) {
	t.Parallel()

	service := services.NewRecordsService(usersEntity(), newFakeRepository(alice()), logger.NewTestLogger())

	require.NoError(t, service.Delete(context.Background(), 1))

	_, err := service.FindOne(context.Background(), 1)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.ErrorIs(t, service.Delete(context.Background(), 1), model.ErrNotFound)
}

func TestRecordsService_ErrorBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		failure       error
		call          func(service *services.RecordsService) error
		expected      error
		expectLogging bool
	}{
		{
			name:    "driver failure on findAll becomes unexpected",
			failure: fmt.Errorf("%w: connection reset", model.ErrDatabaseQuery),
			call: func(service *services.RecordsService) error {
				_, err := service.FindAll(context.Background(), model.FilterSpec{})

				return err
			},
			expected:      model.ErrUnexpected,
			expectLogging: true,
		},
		{
			name:    "driver failure on create becomes unexpected",
			failure: errors.New("boom"),
			call: func(service *services.RecordsService) error {
				_, err := service.Create(context.Background(), alice())

				return err
			},
			expected:      model.ErrUnexpected,
			expectLogging: true,
		},
		{
			name:    "duplicate keeps its kind",
			failure: model.ErrDuplicateRecord,
			call: func(service *services.RecordsService) error {
				_, err := service.Create(context.Background(), alice())

				return err
			},
			expected: model.ErrDuplicateRecord,
		},
		{
			name:    "soft delete unsupported keeps its kind",
			failure: model.ErrSoftDeleteUnsupported,
			call: func(service *services.RecordsService) error {
				return service.Restore(context.Background(), 1)
			},
			expected: model.ErrSoftDeleteUnsupported,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			repo := newFakeRepository()
			repo.failure = tc.failure
			service := services.NewRecordsService(usersEntity(), repo, logger.NewBufferedTestLogger(&buf))

			err := tc.call(service)
			require.ErrorIs(t, err, tc.expected)

			if !tc.expectLogging {
				require.Zero(t, buf.Len())

				return
			}

			require.NotErrorIs(t, err, model.ErrDatabaseQuery)
			require.Contains(t, buf.String(), `"level":"error"`)
			require.Contains(t, buf.String(), `"entity":"users"`)
		})
	}
}
