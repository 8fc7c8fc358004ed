package repository

import (
	"context"

	"github.com/tmlira/chesslens/internal/models"
)

// GameRepository stores and reads the ingested dataset.
type GameRepository interface {
	// InsertBatch appends a batch of parsed games.
	InsertBatch(ctx context.Context, batch []models.Game) error
	// DeleteAll clears the dataset ahead of a re-ingest.
	DeleteAll(ctx context.Context) error
	// Get returns a single game by id.
	Get(ctx context.Context, id int64) (*models.Game, error)
	// List returns games matching the filter, paginated.
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	// Count counts games matching the filter.
	Count(ctx context.Context, filter models.GameFilter) (int, error)
	// UpdateOpening backfills a recognized opening onto a stored game.
	UpdateOpening(ctx context.Context, id int64, eco, opening string) error
}

// StatsRepository computes the dashboard aggregations, restricted by the
// active filter.
type StatsRepository interface {
	Metrics(ctx context.Context, f models.StatsFilter) (models.KeyMetrics, error)
	Results(ctx context.Context, f models.StatsFilter) ([]models.ResultStat, error)
	Terminations(ctx context.Context, f models.StatsFilter, limit int) ([]models.TerminationStat, error)
	EloHistogram(ctx context.Context, f models.StatsFilter) ([]models.EloHistogramBin, error)
	WinRateByEloDiff(ctx context.Context, f models.StatsFilter) ([]models.EloDiffStat, error)
	DrawRateByElo(ctx context.Context, f models.StatsFilter) ([]models.EloBucketStat, error)
	TopOpenings(ctx context.Context, f models.StatsFilter, limit int) ([]models.OpeningStat, error)
	OpeningCategories(ctx context.Context, f models.StatsFilter) ([]models.OpeningCategoryStat, error)
	OutcomesByCategory(ctx context.Context, f models.StatsFilter) ([]models.OutcomeStat, error)
	TimeClasses(ctx context.Context, f models.StatsFilter) ([]models.TimeClassStat, error)
	OutcomesByTimeClass(ctx context.Context, f models.StatsFilter) ([]models.OutcomeStat, error)
	GamesByHour(ctx context.Context, f models.StatsFilter) ([]models.HourStat, error)
	GamesByDay(ctx context.Context, f models.StatsFilter) ([]models.DayStat, error)
	// Bounds reports the filter values available for the current dataset.
	Bounds(ctx context.Context) (models.FilterBounds, error)
}
