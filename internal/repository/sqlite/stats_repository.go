package sqlite

import (
	"context"
	"database/sql"
	"sort"

	"github.com/tmlira/chesslens/internal/games"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Metrics(ctx context.Context, f models.StatsFilter) (models.KeyMetrics, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select(
		"COUNT(*)",
		"SUM(CASE WHEN result = '1-0' THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN result = '0-1' THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN result = '1/2-1/2' THEN 1 ELSE 0 END)",
	).From("games"), f)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return models.KeyMetrics{}, err
	}

	var m models.KeyMetrics
	var white, black, draws sql.NullInt64
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&m.TotalGames, &white, &black, &draws); err != nil {
		log.Error("failed to query key metrics: %v", err)
		return models.KeyMetrics{}, err
	}
	m.WhiteWins = int(white.Int64)
	m.BlackWins = int(black.Int64)
	m.Draws = int(draws.Int64)
	if m.TotalGames > 0 {
		m.WhitePct = 100 * float64(m.WhiteWins) / float64(m.TotalGames)
		m.BlackPct = 100 * float64(m.BlackWins) / float64(m.TotalGames)
		m.DrawPct = 100 * float64(m.Draws) / float64(m.TotalGames)
	}
	return m, nil
}

func (r *statsRepository) Results(ctx context.Context, f models.StatsFilter) ([]models.ResultStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select("result", "COUNT(*) AS c").From("games"), f).
		GroupBy("result").
		OrderBy("c DESC", "MIN(row_seq) ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query result distribution: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.ResultStat
	for rows.Next() {
		var s models.ResultStat
		if err := rows.Scan(&s.Result, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) Terminations(ctx context.Context, f models.StatsFilter, limit int) ([]models.TerminationStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	if limit <= 0 {
		limit = 10
	}

	query := applyStatsFilter(sqlBuilder.Select("termination", "COUNT(*) AS c").From("games"), f).
		GroupBy("termination").
		OrderBy("c DESC", "MIN(row_seq) ASC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query terminations: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.TerminationStat
	for rows.Next() {
		var s models.TerminationStat
		if err := rows.Scan(&s.Termination, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) EloHistogram(ctx context.Context, f models.StatsFilter) ([]models.EloHistogramBin, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	bins := map[int]*models.EloHistogramBin{}

	count := func(column string, assign func(bin *models.EloHistogramBin, n int)) error {
		query := applyStatsFilter(sqlBuilder.
			Select("("+column+" / 100) * 100 AS bucket", "COUNT(*)").
			From("games").
			Where(column+" IS NOT NULL"), f).
			GroupBy("bucket")

		sqlStr, args, err := query.ToSql()
		if err != nil {
			return err
		}
		rows, err := r.db.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var bucket, n int
			if err := rows.Scan(&bucket, &n); err != nil {
				return err
			}
			b, ok := bins[bucket]
			if !ok {
				b = &models.EloHistogramBin{Bucket: bucket}
				bins[bucket] = b
			}
			assign(b, n)
		}
		return rows.Err()
	}

	if err := count("white_elo", func(b *models.EloHistogramBin, n int) { b.White = n }); err != nil {
		log.Error("failed to query white elo histogram: %v", err)
		return nil, err
	}
	if err := count("black_elo", func(b *models.EloHistogramBin, n int) { b.Black = n }); err != nil {
		log.Error("failed to query black elo histogram: %v", err)
		return nil, err
	}

	out := make([]models.EloHistogramBin, 0, len(bins))
	for _, b := range bins {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out, nil
}

// Rating-difference bins, mirrored in the SQL CASE below.
var eloDiffBins = []string{"0-50", "50-100", "100-200", "200-500", "500+"}

func (r *statsRepository) WinRateByEloDiff(ctx context.Context, f models.StatsFilter) ([]models.EloDiffStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select(
		`CASE
    WHEN ABS(elo_diff) <= 50 THEN 0
    WHEN ABS(elo_diff) <= 100 THEN 1
    WHEN ABS(elo_diff) <= 200 THEN 2
    WHEN ABS(elo_diff) <= 500 THEN 3
    ELSE 4
END AS bin_idx`,
		"COUNT(*)",
		`100.0 * AVG(CASE WHEN (elo_diff > 0 AND result = '1-0') OR (elo_diff < 0 AND result = '0-1') THEN 1.0 ELSE 0.0 END)`,
	).From("games").
		Where("elo_diff IS NOT NULL AND ABS(elo_diff) > 0 AND ABS(elo_diff) <= 1000"), f).
		GroupBy("bin_idx").
		OrderBy("bin_idx ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query win rate by elo diff: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.EloDiffStat
	for rows.Next() {
		var idx int
		var s models.EloDiffStat
		if err := rows.Scan(&idx, &s.Games, &s.WinRate); err != nil {
			return nil, err
		}
		if idx >= 0 && idx < len(eloDiffBins) {
			s.Bin = eloDiffBins[idx]
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Average-Elo buckets, mirrored in the SQL CASE below.
var avgEloBuckets = []string{"<1000", "1000-1200", "1200-1400", "1400-1600", "1600-1800", "1800-2000", "2000+"}

func (r *statsRepository) DrawRateByElo(ctx context.Context, f models.StatsFilter) ([]models.EloBucketStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select(
		`CASE
    WHEN avg_elo <= 1000 THEN 0
    WHEN avg_elo <= 1200 THEN 1
    WHEN avg_elo <= 1400 THEN 2
    WHEN avg_elo <= 1600 THEN 3
    WHEN avg_elo <= 1800 THEN 4
    WHEN avg_elo <= 2000 THEN 5
    ELSE 6
END AS bucket_idx`,
		"COUNT(*)",
		`100.0 * AVG(CASE WHEN result = '1/2-1/2' THEN 1.0 ELSE 0.0 END)`,
	).From("games").
		Where("avg_elo IS NOT NULL AND avg_elo <= 3000"), f).
		GroupBy("bucket_idx").
		OrderBy("bucket_idx ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query draw rate by elo: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.EloBucketStat
	for rows.Next() {
		var idx int
		var s models.EloBucketStat
		if err := rows.Scan(&idx, &s.Games, &s.DrawRate); err != nil {
			return nil, err
		}
		if idx >= 0 && idx < len(avgEloBuckets) {
			s.Bucket = avgEloBuckets[idx]
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) TopOpenings(ctx context.Context, f models.StatsFilter, limit int) ([]models.OpeningStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	if limit <= 0 {
		limit = 15
	}

	query := applyStatsFilter(sqlBuilder.Select("opening", "COUNT(*) AS c").From("games").
		Where("opening != '' AND opening != '?'"), f).
		GroupBy("opening").
		OrderBy("c DESC", "MIN(row_seq) ASC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query top openings: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.OpeningStat
	for rows.Next() {
		var s models.OpeningStat
		if err := rows.Scan(&s.Opening, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) OpeningCategories(ctx context.Context, f models.StatsFilter) ([]models.OpeningCategoryStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select("opening_category", "COUNT(*) AS c").From("games"), f).
		GroupBy("opening_category").
		OrderBy("c DESC", "MIN(row_seq) ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query opening categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.OpeningCategoryStat
	for rows.Next() {
		var s models.OpeningCategoryStat
		if err := rows.Scan(&s.Category, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) OutcomesByCategory(ctx context.Context, f models.StatsFilter) ([]models.OutcomeStat, error) {
	return r.outcomesBy(ctx, f, "opening_category")
}

func (r *statsRepository) OutcomesByTimeClass(ctx context.Context, f models.StatsFilter) ([]models.OutcomeStat, error) {
	return r.outcomesBy(ctx, f, "time_class")
}

func (r *statsRepository) outcomesBy(ctx context.Context, f models.StatsFilter, column string) ([]models.OutcomeStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select(
		column,
		"COUNT(*)",
		"ROUND(100.0 * SUM(CASE WHEN result = '1-0' THEN 1 ELSE 0 END) / COUNT(*), 1)",
		"ROUND(100.0 * SUM(CASE WHEN result = '0-1' THEN 1 ELSE 0 END) / COUNT(*), 1)",
		"ROUND(100.0 * SUM(CASE WHEN result = '1/2-1/2' THEN 1 ELSE 0 END) / COUNT(*), 1)",
	).From("games"), f).
		GroupBy(column).
		OrderBy(column + " ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query outcomes by %s: %v", column, err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.OutcomeStat
	for rows.Next() {
		var s models.OutcomeStat
		if err := rows.Scan(&s.Group, &s.Games, &s.WhitePct, &s.BlackPct, &s.DrawPct); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) TimeClasses(ctx context.Context, f models.StatsFilter) ([]models.TimeClassStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select("time_class", "COUNT(*) AS c").From("games"), f).
		GroupBy("time_class").
		OrderBy("c DESC", "MIN(row_seq) ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query time classes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.TimeClassStat
	for rows.Next() {
		var s models.TimeClassStat
		if err := rows.Scan(&s.TimeClass, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) GamesByHour(ctx context.Context, f models.StatsFilter) ([]models.HourStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select("hour", "COUNT(*)").From("games").
		Where("hour IS NOT NULL"), f).
		GroupBy("hour").
		OrderBy("hour ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query games by hour: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.HourStat
	for rows.Next() {
		var s models.HourStat
		if err := rows.Scan(&s.Hour, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) GamesByDay(ctx context.Context, f models.StatsFilter) ([]models.DayStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query := applyStatsFilter(sqlBuilder.Select("day_of_week", "COUNT(*)").From("games").
		Where("day_of_week != ''"), f).
		GroupBy("day_of_week")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query games by day: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Monday-first ordering regardless of counts.
	var stats []models.DayStat
	for _, day := range games.DayNames {
		if n, ok := counts[day]; ok {
			stats = append(stats, models.DayStat{Day: day, Count: n})
		}
	}
	return stats, nil
}

func (r *statsRepository) Bounds(ctx context.Context) (models.FilterBounds, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	var b models.FilterBounds
	var minWhite, maxWhite, minBlack, maxBlack sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
SELECT MIN(white_elo), MAX(white_elo), MIN(black_elo), MAX(black_elo)
FROM games
`).Scan(&minWhite, &maxWhite, &minBlack, &maxBlack)
	if err != nil {
		log.Error("failed to query elo bounds: %v", err)
		return models.FilterBounds{}, err
	}

	b.MinElo = minNonNull(minWhite, minBlack)
	b.MaxElo = maxNonNull(maxWhite, maxBlack)

	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT time_class FROM games ORDER BY time_class`)
	if err != nil {
		log.Error("failed to query time classes: %v", err)
		return models.FilterBounds{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tc string
		if err := rows.Scan(&tc); err != nil {
			return models.FilterBounds{}, err
		}
		b.TimeClasses = append(b.TimeClasses, tc)
	}
	return b, rows.Err()
}

func minNonNull(a, b sql.NullInt64) int {
	switch {
	case a.Valid && b.Valid:
		if a.Int64 < b.Int64 {
			return int(a.Int64)
		}
		return int(b.Int64)
	case a.Valid:
		return int(a.Int64)
	case b.Valid:
		return int(b.Int64)
	}
	return 0
}

func maxNonNull(a, b sql.NullInt64) int {
	switch {
	case a.Valid && b.Valid:
		if a.Int64 > b.Int64 {
			return int(a.Int64)
		}
		return int(b.Int64)
	case a.Valid:
		return int(a.Int64)
	case b.Valid:
		return int(b.Int64)
	}
	return 0
}
