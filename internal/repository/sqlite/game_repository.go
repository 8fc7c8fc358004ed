package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/tmlira/chesslens/internal/games"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/repository"
)

var gameColumns = []string{
	"id", "row_seq", "event", "white", "black", "result",
	"played_at", "hour", "day_of_week",
	"white_elo", "black_elo", "avg_elo", "elo_diff",
	"white_rating_diff", "black_rating_diff",
	"eco", "opening", "opening_category",
	"time_control", "time_base", "time_increment", "time_class",
	"termination", "move_count", "moves",
}

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) InsertBatch(ctx context.Context, batch []models.Game) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	if len(batch) == 0 {
		return nil
	}
	log.Debug("batch inserting %d games", len(batch))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO games (
    row_seq, event, white, black, result,
    played_at, hour, day_of_week,
    white_elo, black_elo, avg_elo, elo_diff,
    white_rating_diff, black_rating_diff,
    eco, opening, opening_category,
    time_control, time_base, time_increment, time_class,
    termination, move_count, moves
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, g := range batch {
			var playedAt any
			if g.PlayedAt != nil {
				playedAt = *g.PlayedAt
			}
			_, err := stmt.ExecContext(ctx,
				g.RowSeq, g.Event, g.White, g.Black, g.Result,
				playedAt, nullInt(g.Hour), g.DayOfWeek,
				nullInt(g.WhiteElo), nullInt(g.BlackElo), nullFloat(g.AvgElo), nullInt(g.EloDiff),
				nullInt(g.WhiteRatingDiff), nullInt(g.BlackRatingDiff),
				g.ECO, g.Opening, g.OpeningCategory,
				g.TimeControl, nullInt(g.TimeBase), nullInt(g.TimeIncrement), g.TimeClass,
				g.Termination, g.MoveCount, g.Moves,
			)
			if err != nil {
				log.Error("failed to insert game row_seq=%d: %v", g.RowSeq, err)
				return err
			}
		}
		return nil
	})
}

func (r *gameRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("clearing games table")

	_, err := r.db.ExecContext(ctx, `DELETE FROM games`)
	if err != nil {
		log.Error("failed to clear games: %v", err)
	}
	return err
}

func (r *gameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("getting game: id=%d", id)

	query, args, err := sqlBuilder.Select(gameColumns...).
		From("games").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	g, err := scanGame(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("game not found: id=%d", id)
		} else {
			log.Error("failed to get game: %v", err)
		}
		return nil, err
	}
	return g, nil
}

func (r *gameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("listing games: result=%s, time_class=%s, opening=%s, player=%s",
		filter.Result, filter.TimeClass, filter.Opening, filter.Player)

	query := applyGameFilter(sqlBuilder.Select(gameColumns...).From("games"), filter)

	// Safe ORDER BY with validation
	orderBy := "row_seq"
	if filter.OrderBy == "played_at" || filter.OrderBy == "avg_elo" {
		orderBy = filter.OrderBy
	}
	orderDir := "ASC"
	if strings.EqualFold(filter.OrderDir, "DESC") {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "row_seq ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list games: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			log.Error("failed to scan game row: %v", err)
			return nil, err
		}
		out = append(out, *g)
	}
	log.Debug("found %d games", len(out))
	return out, rows.Err()
}

func (r *gameRepository) Count(ctx context.Context, filter models.GameFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	sqlStr, args, err := applyGameFilter(sqlBuilder.Select("COUNT(*)").From("games"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count games: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *gameRepository) UpdateOpening(ctx context.Context, id int64, eco, opening string) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("updating game opening: game_id=%d, eco=%s, opening=%s", id, eco, opening)

	_, err := r.db.ExecContext(ctx, `
UPDATE games
SET eco = ?, opening = ?, opening_category = ?
WHERE id = ?
`, eco, opening, games.OpeningCategory(eco), id)
	if err != nil {
		log.Error("failed to update game opening: %v", err)
	}
	return err
}

func applyGameFilter(q squirrel.SelectBuilder, filter models.GameFilter) squirrel.SelectBuilder {
	if filter.Result != "" {
		q = q.Where(squirrel.Eq{"result": filter.Result})
	}
	if filter.TimeClass != "" {
		q = q.Where(squirrel.Eq{"time_class": filter.TimeClass})
	}
	if filter.Opening != "" {
		q = q.Where(squirrel.Eq{"opening": filter.Opening})
	}
	if filter.Player != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"white": filter.Player},
			squirrel.Eq{"black": filter.Player},
		})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*models.Game, error) {
	var (
		g         models.Game
		playedAt  sql.NullTime
		hour      sql.NullInt64
		whiteElo  sql.NullInt64
		blackElo  sql.NullInt64
		avgElo    sql.NullFloat64
		eloDiff   sql.NullInt64
		whiteDiff sql.NullInt64
		blackDiff sql.NullInt64
		timeBase  sql.NullInt64
		timeInc   sql.NullInt64
	)
	err := row.Scan(
		&g.ID, &g.RowSeq, &g.Event, &g.White, &g.Black, &g.Result,
		&playedAt, &hour, &g.DayOfWeek,
		&whiteElo, &blackElo, &avgElo, &eloDiff,
		&whiteDiff, &blackDiff,
		&g.ECO, &g.Opening, &g.OpeningCategory,
		&g.TimeControl, &timeBase, &timeInc, &g.TimeClass,
		&g.Termination, &g.MoveCount, &g.Moves,
	)
	if err != nil {
		return nil, err
	}
	if playedAt.Valid {
		t := playedAt.Time
		g.PlayedAt = &t
	}
	g.Hour = intPtr(hour)
	g.WhiteElo = intPtr(whiteElo)
	g.BlackElo = intPtr(blackElo)
	g.AvgElo = floatPtr(avgElo)
	g.EloDiff = intPtr(eloDiff)
	g.WhiteRatingDiff = intPtr(whiteDiff)
	g.BlackRatingDiff = intPtr(blackDiff)
	g.TimeBase = intPtr(timeBase)
	g.TimeIncrement = intPtr(timeInc)
	return &g, nil
}
