package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/", s.handleDashboard)
	r.Get("/games", s.handleGames)
	r.Get("/games/{id}", s.handleGameDetail)

	r.Get("/api/stats", s.handleStats)
	r.Get("/api/filters", s.handleFilters)
	r.Get("/api/status", s.handleStatus)
	r.Post("/api/sample", s.handleReloadSample)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return r
}
