package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/tmlira/chesslens/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// applyStatsFilter narrows an aggregate query to the active dashboard filter.
func applyStatsFilter(q squirrel.SelectBuilder, f models.StatsFilter) squirrel.SelectBuilder {
	if f.TimeClass != "" {
		q = q.Where(squirrel.Eq{"time_class": f.TimeClass})
	}
	if f.MinAvgElo > 0 {
		q = q.Where(squirrel.GtOrEq{"avg_elo": f.MinAvgElo})
	}
	if f.MaxAvgElo > 0 {
		q = q.Where(squirrel.LtOrEq{"avg_elo": f.MaxAvgElo})
	}
	return q
}

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	t, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		_ = t.Rollback()
		return err
	}
	return t.Commit()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
