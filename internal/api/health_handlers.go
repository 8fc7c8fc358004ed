package api

import (
	"net/http"

	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/services"
)

// handleHealth is a liveness probe: the server process is running.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady reports whether the service can serve dashboard traffic:
// the database answers and the dataset has finished loading.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if err := s.DB.PingContext(ctx); err != nil {
		log.Warn("readiness check failed: database: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Database unavailable"))
		return
	}

	if state := s.Datasets.Status().State; state != services.StateReady {
		log.Debug("readiness check: dataset state=%s", state)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Dataset not loaded"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
