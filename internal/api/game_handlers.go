package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
)

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	result := r.URL.Query().Get("result")
	timeClass := r.URL.Query().Get("time_class")
	opening := r.URL.Query().Get("opening")
	player := r.URL.Query().Get("player")
	pageParam := r.URL.Query().Get("page")
	perPageParam := r.URL.Query().Get("per_page")
	orderBy := r.URL.Query().Get("order_by")
	orderDir := strings.ToUpper(r.URL.Query().Get("order_dir"))

	log = log.WithFields(map[string]any{
		"result":     result,
		"time_class": timeClass,
		"opening":    opening,
		"player":     player,
		"page":       pageParam,
	})
	log.Debug("listing games with filters")

	page := 1
	if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
		page = p
	}

	perPage := 25
	switch perPageParam {
	case "10":
		perPage = 10
	case "25":
		perPage = 25
	case "50":
		perPage = 50
	case "100":
		perPage = 100
	}

	offset := (page - 1) * perPage

	if orderBy != "played_at" && orderBy != "avg_elo" {
		orderBy = "row_seq"
	}
	if orderDir != "ASC" && orderDir != "DESC" {
		orderDir = "ASC"
	}

	filter := models.GameFilter{
		Result:    result,
		TimeClass: timeClass,
		Opening:   opening,
		Player:    player,
		Limit:     perPage,
		Offset:    offset,
		OrderBy:   orderBy,
		OrderDir:  orderDir,
	}

	games, totalCount, err := s.Games.ListGames(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	totalPages := totalCount / perPage
	if totalCount%perPage != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	log.Debug("found %d games", len(games))
	s.render(w, r, "pages/games.html", pageData{
		"title":       "Games",
		"games":       games,
		"filters":     r.URL.Query(),
		"status":      s.Datasets.Status(),
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
		"total_count": totalCount,
		"order_by":    orderBy,
		"order_dir":   orderDir,
	})
}

func (s *Server) handleGameDetail(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid game ID: %s", idStr)
		handleError(w, r, errors.NewBadRequestError("invalid game ID"))
		return
	}

	log = log.WithField("game_id", id)
	log.Debug("fetching game detail")

	detail, err := s.Games.GetGame(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.render(w, r, "pages/game_detail.html", pageData{
		"title": detail.Game.White + " vs " + detail.Game.Black,
		"game":  detail.Game,
		"fens":  detail.FENs,
		"moves": detail.Moves,
	})
}
