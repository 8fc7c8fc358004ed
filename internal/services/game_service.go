package services

import (
	"context"
	"database/sql"

	"github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/games"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/repository"
)

// GameDetail is a single game plus its replayed positions.
type GameDetail struct {
	Game  models.Game `json:"game"`
	FENs  []string    `json:"fens"`
	Moves []string    `json:"moves"`
}

// GameService handles game listing and the per-game detail view.
type GameService interface {
	ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error)
	GetGame(ctx context.Context, id int64) (*GameDetail, error)
}

type gameService struct {
	gameRepo repository.GameRepository
}

// NewGameService creates a new GameService
func NewGameService(gameRepo repository.GameRepository) GameService {
	return &gameService{gameRepo: gameRepo}
}

func (s *gameService) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing games: result=%s, time_class=%s, player=%s, limit=%d, offset=%d",
		filter.Result, filter.TimeClass, filter.Player, filter.Limit, filter.Offset)

	list, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list games: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.gameRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count games: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return list, total, nil
}

func (s *gameService) GetGame(ctx context.Context, id int64) (*GameDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting game: id=%d", id)

	game, err := s.gameRepo.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("game", id)
		}
		log.Error("failed to get game: %v", err)
		return nil, errors.NewInternalError(err)
	}

	detail := &GameDetail{Game: *game}

	replayed, err := games.Replay(game.Moves)
	if err != nil {
		// The movetext is display data; a game we cannot replay still has
		// a detail page, just without the board.
		log.Warn("failed to replay game %d: %v", id, err)
		return detail, nil
	}
	detail.FENs = replayed.FENs
	detail.Moves = replayed.Moves

	// Backfill openings the source data left blank when the replay
	// recognizes one.
	if (game.Opening == "" || game.Opening == "?") && replayed.Opening != "" {
		if err := s.gameRepo.UpdateOpening(ctx, id, replayed.ECO, replayed.Opening); err != nil {
			log.Warn("failed to backfill opening for game %d: %v", id, err)
		} else {
			detail.Game.ECO = replayed.ECO
			detail.Game.Opening = replayed.Opening
			detail.Game.OpeningCategory = games.OpeningCategory(replayed.ECO)
		}
	}

	return detail, nil
}
