package api

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/tmlira/chesslens/internal/config"
	"github.com/tmlira/chesslens/internal/db"
	"github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/services"
)

type Server struct {
	DB        *db.DB
	Datasets  services.DatasetService
	Stats     services.StatsService
	Games     services.GameService
	Templates *template.Template
	Config    *config.Config
}

type pageData map[string]any

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering dashboard page")

	status := s.Datasets.Status()

	bounds, err := s.Stats.Bounds(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.render(w, r, "pages/dashboard.html", pageData{
		"title":   "Dashboard",
		"status":  status,
		"bounds":  bounds,
		"filters": r.URL.Query(),
	})
}

// statsFilterFromQuery reads the dashboard filter parameters. Out-of-range
// numbers are rejected rather than silently clamped.
func statsFilterFromQuery(r *http.Request) (models.StatsFilter, error) {
	var f models.StatsFilter
	q := r.URL.Query()

	f.TimeClass = q.Get("time_class")

	if v := q.Get("min_elo"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return f, errors.NewValidationError("min_elo", "must be a non-negative number")
		}
		f.MinAvgElo = n
	}
	if v := q.Get("max_elo"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return f, errors.NewValidationError("max_elo", "must be a non-negative number")
		}
		f.MaxAvgElo = n
	}
	return f, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	filter, err := statsFilterFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("serving dashboard stats: time_class=%s", filter.TimeClass)

	stats, err := s.Stats.Dashboard(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	bounds, err := s.Stats.Bounds(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bounds)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Datasets.Status())
}

func (s *Server) handleReloadSample(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	sampleSize := s.Config.SampleSize
	if v := r.FormValue("sample_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewValidationError("sample_size", "must be a non-negative integer"))
			return
		}
		sampleSize = n
	}

	seed := s.Config.SampleSeed
	if v := r.FormValue("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(w, r, errors.NewValidationError("seed", "must be an integer"))
			return
		}
		seed = n
	}

	log.Info("reload requested: sample_size=%d, seed=%d", sampleSize, seed)

	if err := s.Datasets.Reload(r.Context(), sampleSize, seed); err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, s.Datasets.Status())
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
