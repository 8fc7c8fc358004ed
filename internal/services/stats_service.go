package services

import (
	"context"

	"github.com/tmlira/chesslens/internal/cache"
	"github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/repository"
)

const (
	terminationsLimit = 10
	topOpeningsLimit  = 15
)

// StatsService computes the dashboard aggregates behind a cache keyed on
// the active sample and filter.
type StatsService interface {
	Dashboard(ctx context.Context, filter models.StatsFilter) (*models.DashboardStats, error)
	Bounds(ctx context.Context) (models.FilterBounds, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	cache     *cache.Cache
	datasets  DatasetService
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository, c *cache.Cache, datasets DatasetService) StatsService {
	return &statsService{statsRepo: statsRepo, cache: c, datasets: datasets}
}

func (s *statsService) Dashboard(ctx context.Context, filter models.StatsFilter) (*models.DashboardStats, error) {
	log := logger.FromContext(ctx)

	if filter.MinAvgElo > 0 && filter.MaxAvgElo > 0 && filter.MinAvgElo > filter.MaxAvgElo {
		return nil, errors.NewValidationError("elo_range", "min must not exceed max")
	}

	ds := s.datasets.Status()
	key := cache.Key{
		Generation: ds.Generation,
		SampleSize: ds.SampleSize,
		Seed:       ds.Seed,
		TimeClass:  filter.TimeClass,
		MinAvgElo:  filter.MinAvgElo,
		MaxAvgElo:  filter.MaxAvgElo,
	}
	if stats, ok := s.cache.Get(key); ok {
		log.Debug("dashboard stats served from cache")
		return stats, nil
	}

	log.Debug("computing dashboard stats: time_class=%s, elo=[%.0f, %.0f]",
		filter.TimeClass, filter.MinAvgElo, filter.MaxAvgElo)

	stats := &models.DashboardStats{}
	var err error

	if stats.Metrics, err = s.statsRepo.Metrics(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.Results, err = s.statsRepo.Results(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.Terminations, err = s.statsRepo.Terminations(ctx, filter, terminationsLimit); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.EloHistogram, err = s.statsRepo.EloHistogram(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.WinRateByEloDiff, err = s.statsRepo.WinRateByEloDiff(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.DrawRateByElo, err = s.statsRepo.DrawRateByElo(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.TopOpenings, err = s.statsRepo.TopOpenings(ctx, filter, topOpeningsLimit); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.OpeningCategories, err = s.statsRepo.OpeningCategories(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.OutcomesByCategory, err = s.statsRepo.OutcomesByCategory(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.TimeClasses, err = s.statsRepo.TimeClasses(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.OutcomesByTimeClass, err = s.statsRepo.OutcomesByTimeClass(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.GamesByHour, err = s.statsRepo.GamesByHour(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if stats.GamesByDay, err = s.statsRepo.GamesByDay(ctx, filter); err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Only cache results computed against a settled dataset. An ingest may
	// have rewritten the table underneath this request, and its Clear()
	// must not be undone by caching the partial aggregate.
	if now := s.datasets.Status(); now.State == StateReady && now.Generation == key.Generation {
		s.cache.Put(key, stats)
	}
	return stats, nil
}

func (s *statsService) Bounds(ctx context.Context) (models.FilterBounds, error) {
	log := logger.FromContext(ctx)

	bounds, err := s.statsRepo.Bounds(ctx)
	if err != nil {
		log.Error("failed to get filter bounds: %v", err)
		return models.FilterBounds{}, errors.NewInternalError(err)
	}
	return bounds, nil
}
