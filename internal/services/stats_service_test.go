package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tmlira/chesslens/internal/cache"
	apperrors "github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/services"
	"github.com/tmlira/chesslens/internal/testutil/mocks"
)

// stubDatasets reports a fixed ready dataset.
type stubDatasets struct{ status services.DatasetStatus }

func (s *stubDatasets) Reload(context.Context, int, int64) error { return nil }
func (s *stubDatasets) Ingest(context.Context, int, int64) error { return nil }
func (s *stubDatasets) Status() services.DatasetStatus           { return s.status }

func readyDatasets() *stubDatasets {
	return &stubDatasets{status: services.DatasetStatus{
		State:      services.StateReady,
		Generation: 1,
		SampleSize: 1000,
		Seed:       42,
	}}
}

// expectAllAggregates registers one Once expectation per aggregation and
// returns the final call so tests can attach behavior to it.
func expectAllAggregates(repo *mocks.MockStatsRepository, f models.StatsFilter) *mock.Call {
	repo.On("Metrics", mock.Anything, f).Return(models.KeyMetrics{TotalGames: 3}, nil).Once()
	repo.On("Results", mock.Anything, f).Return([]models.ResultStat{{Result: "1-0", Count: 3}}, nil).Once()
	repo.On("Terminations", mock.Anything, f, 10).Return([]models.TerminationStat{}, nil).Once()
	repo.On("EloHistogram", mock.Anything, f).Return([]models.EloHistogramBin{}, nil).Once()
	repo.On("WinRateByEloDiff", mock.Anything, f).Return([]models.EloDiffStat{}, nil).Once()
	repo.On("DrawRateByElo", mock.Anything, f).Return([]models.EloBucketStat{}, nil).Once()
	repo.On("TopOpenings", mock.Anything, f, 15).Return([]models.OpeningStat{}, nil).Once()
	repo.On("OpeningCategories", mock.Anything, f).Return([]models.OpeningCategoryStat{}, nil).Once()
	repo.On("OutcomesByCategory", mock.Anything, f).Return([]models.OutcomeStat{}, nil).Once()
	repo.On("TimeClasses", mock.Anything, f).Return([]models.TimeClassStat{}, nil).Once()
	repo.On("OutcomesByTimeClass", mock.Anything, f).Return([]models.OutcomeStat{}, nil).Once()
	repo.On("GamesByHour", mock.Anything, f).Return([]models.HourStat{}, nil).Once()
	return repo.On("GamesByDay", mock.Anything, f).Return([]models.DayStat{}, nil).Once()
}

func TestDashboardComputesAllAggregates(t *testing.T) {
	repo := new(mocks.MockStatsRepository)
	filter := models.StatsFilter{TimeClass: "Blitz (3-10min)"}
	expectAllAggregates(repo, filter)

	svc := services.NewStatsService(repo, cache.New(8), readyDatasets())

	stats, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Metrics.TotalGames)
	assert.Len(t, stats.Results, 1)
	repo.AssertExpectations(t)
}

func TestDashboardServedFromCache(t *testing.T) {
	repo := new(mocks.MockStatsRepository)
	filter := models.StatsFilter{}
	// Every expectation is Once; a second repository round would fail.
	expectAllAggregates(repo, filter)

	svc := services.NewStatsService(repo, cache.New(8), readyDatasets())

	first, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)

	assert.Same(t, first, second)
	repo.AssertExpectations(t)
}

func TestDashboardDistinctFiltersMissCache(t *testing.T) {
	repo := new(mocks.MockStatsRepository)
	blitz := models.StatsFilter{TimeClass: "Blitz (3-10min)"}
	bullet := models.StatsFilter{TimeClass: "Bullet (<3min)"}
	expectAllAggregates(repo, blitz)
	expectAllAggregates(repo, bullet)

	svc := services.NewStatsService(repo, cache.New(8), readyDatasets())

	_, err := svc.Dashboard(context.Background(), blitz)
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), bullet)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDashboardOverlappingIngestDoesNotPoisonCache(t *testing.T) {
	repo := new(mocks.MockStatsRepository)
	filter := models.StatsFilter{}
	c := cache.New(8)
	ds := &stubDatasets{status: services.DatasetStatus{
		State:      services.StateComputing,
		Generation: 1,
		SampleSize: 1000,
		Seed:       42,
	}}
	svc := services.NewStatsService(repo, c, ds)

	// First round runs against the half-written table. The ingest finishes
	// while the last aggregate is in flight: cache cleared, state ready,
	// generation bumped.
	expectAllAggregates(repo, filter).Run(func(mock.Arguments) {
		c.Clear()
		ds.status = services.DatasetStatus{
			State:      services.StateReady,
			Generation: 2,
			SampleSize: 1000,
			Seed:       42,
		}
	})
	expectAllAggregates(repo, filter)

	stale, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)

	// The settled dataset must get a fresh computation, not the partial one.
	fresh, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, 1, c.Len())

	// And the fresh result is what later identical requests are served.
	again, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)
	assert.Same(t, fresh, again)
	repo.AssertExpectations(t)
}

func TestDashboardRejectsInvertedEloRange(t *testing.T) {
	svc := services.NewStatsService(new(mocks.MockStatsRepository), cache.New(8), readyDatasets())

	_, err := svc.Dashboard(context.Background(), models.StatsFilter{MinAvgElo: 1800, MaxAvgElo: 1200})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestBounds(t *testing.T) {
	repo := new(mocks.MockStatsRepository)
	repo.On("Bounds", mock.Anything).Return(models.FilterBounds{MinElo: 800, MaxElo: 2600}, nil).Once()

	svc := services.NewStatsService(repo, cache.New(8), readyDatasets())

	b, err := svc.Bounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 800, b.MinElo)
	assert.Equal(t, 2600, b.MaxElo)
}
