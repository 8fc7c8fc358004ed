package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tmlira/chesslens/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Metrics(ctx context.Context, f models.StatsFilter) (models.KeyMetrics, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.KeyMetrics), args.Error(1)
}

func (m *MockStatsRepository) Results(ctx context.Context, f models.StatsFilter) ([]models.ResultStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ResultStat), args.Error(1)
}

func (m *MockStatsRepository) Terminations(ctx context.Context, f models.StatsFilter, limit int) ([]models.TerminationStat, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TerminationStat), args.Error(1)
}

func (m *MockStatsRepository) EloHistogram(ctx context.Context, f models.StatsFilter) ([]models.EloHistogramBin, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EloHistogramBin), args.Error(1)
}

func (m *MockStatsRepository) WinRateByEloDiff(ctx context.Context, f models.StatsFilter) ([]models.EloDiffStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EloDiffStat), args.Error(1)
}

func (m *MockStatsRepository) DrawRateByElo(ctx context.Context, f models.StatsFilter) ([]models.EloBucketStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EloBucketStat), args.Error(1)
}

func (m *MockStatsRepository) TopOpenings(ctx context.Context, f models.StatsFilter, limit int) ([]models.OpeningStat, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OpeningStat), args.Error(1)
}

func (m *MockStatsRepository) OpeningCategories(ctx context.Context, f models.StatsFilter) ([]models.OpeningCategoryStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OpeningCategoryStat), args.Error(1)
}

func (m *MockStatsRepository) OutcomesByCategory(ctx context.Context, f models.StatsFilter) ([]models.OutcomeStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OutcomeStat), args.Error(1)
}

func (m *MockStatsRepository) TimeClasses(ctx context.Context, f models.StatsFilter) ([]models.TimeClassStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeClassStat), args.Error(1)
}

func (m *MockStatsRepository) OutcomesByTimeClass(ctx context.Context, f models.StatsFilter) ([]models.OutcomeStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OutcomeStat), args.Error(1)
}

func (m *MockStatsRepository) GamesByHour(ctx context.Context, f models.StatsFilter) ([]models.HourStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HourStat), args.Error(1)
}

func (m *MockStatsRepository) GamesByDay(ctx context.Context, f models.StatsFilter) ([]models.DayStat, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DayStat), args.Error(1)
}

func (m *MockStatsRepository) Bounds(ctx context.Context) (models.FilterBounds, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.FilterBounds), args.Error(1)
}
