package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tmlira/chesslens/internal/cache"
	apperrors "github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/services"
	"github.com/tmlira/chesslens/internal/testutil"
	"github.com/tmlira/chesslens/internal/testutil/mocks"
	"github.com/tmlira/chesslens/internal/worker"
)

func TestIngestLoadsCSVAndClearsCache(t *testing.T) {
	rows := []testutil.GameRow{testutil.Row(), testutil.Row(), testutil.Row()}
	rows[1].Result = "*" // dropped
	path := testutil.WriteCSV(t, rows)

	repo := new(mocks.MockGameRepository)
	repo.On("DeleteAll", mock.Anything).Return(nil).Once()
	var inserted int
	repo.On("InsertBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted += len(args.Get(1).([]models.Game))
	}).Return(nil)

	c := cache.New(8)
	c.Put(cache.Key{SampleSize: 99}, &models.DashboardStats{})

	svc := services.NewDatasetService(repo, c, worker.NewPool(1, 4), services.DatasetOptions{CSVPath: path})

	err := svc.Ingest(context.Background(), 0, 42)
	require.NoError(t, err)

	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, c.Len(), "ingest must clear cached stats")

	status := svc.Status()
	assert.Equal(t, services.StateReady, status.State)
	assert.Equal(t, int64(1), status.Generation)
	assert.Equal(t, 2, status.Loaded)
	assert.Equal(t, 1, status.Dropped)
	assert.Equal(t, 3, status.TotalRead)
	assert.NotNil(t, status.LoadedAt)

	// A second successful ingest advances the generation again.
	repo.On("DeleteAll", mock.Anything).Return(nil).Once()
	require.NoError(t, svc.Ingest(context.Background(), 0, 42))
	assert.Equal(t, int64(2), svc.Status().Generation)
	repo.AssertExpectations(t)
}

func TestIngestMissingFileFails(t *testing.T) {
	repo := new(mocks.MockGameRepository)
	repo.On("DeleteAll", mock.Anything).Return(nil).Once()

	svc := services.NewDatasetService(repo, cache.New(8), worker.NewPool(1, 4), services.DatasetOptions{CSVPath: "no/such/file.csv"})

	err := svc.Ingest(context.Background(), 0, 42)
	require.Error(t, err)

	status := svc.Status()
	assert.Equal(t, services.StateFailed, status.State)
	assert.NotEmpty(t, status.Error)
}

func TestReloadRunsInBackground(t *testing.T) {
	path := testutil.WriteCSV(t, []testutil.GameRow{testutil.Row()})

	repo := new(mocks.MockGameRepository)
	repo.On("DeleteAll", mock.Anything).Return(nil).Once()
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	svc := services.NewDatasetService(repo, cache.New(8), pool, services.DatasetOptions{CSVPath: path})

	require.NoError(t, svc.Reload(context.Background(), 100, 42))

	deadline := time.Now().Add(5 * time.Second)
	for svc.Status().State != services.StateReady {
		if time.Now().After(deadline) {
			t.Fatalf("dataset never became ready, state=%s", svc.Status().State)
		}
		time.Sleep(10 * time.Millisecond)
	}

	status := svc.Status()
	assert.Equal(t, 100, status.SampleSize)
	assert.Equal(t, int64(42), status.Seed)
	assert.Equal(t, 1, status.Loaded)
}

func TestReloadRejectsConcurrentIngest(t *testing.T) {
	path := testutil.WriteCSV(t, []testutil.GameRow{testutil.Row()})

	// Pool is never started, so the first reload stays in computing.
	svc := services.NewDatasetService(new(mocks.MockGameRepository), cache.New(8), worker.NewPool(1, 4), services.DatasetOptions{CSVPath: path})

	require.NoError(t, svc.Reload(context.Background(), 100, 42))

	err := svc.Reload(context.Background(), 200, 7)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeConflict, appErr.Code)
}

func TestReloadRejectsNegativeSampleSize(t *testing.T) {
	svc := services.NewDatasetService(new(mocks.MockGameRepository), cache.New(8), worker.NewPool(1, 4), services.DatasetOptions{CSVPath: "unused.csv"})

	err := svc.Reload(context.Background(), -1, 42)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}
