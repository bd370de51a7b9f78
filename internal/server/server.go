package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/ironcycle/internal/program"
	"github.com/meltforce/ironcycle/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	svc    *program.Service
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, svc *program.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		svc:    svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Calculators: pure functions, no auth needed.
	s.router.Post("/api/v1/calc/repmax", s.handleCalcRepMax)
	s.router.Post("/api/v1/calc/plates", s.handleCalcPlates)
	s.router.Post("/api/v1/calc/scores", s.handleCalcScores)

	// Template authoring.
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Get("/api/v1/templates/{id}", s.handleGetTemplate)
	s.router.Post("/api/v1/templates/validate", s.handleValidateTemplate)

	// Program state: mutating routes require the API key.
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/templates", s.handleCreateTemplate)
		r.Post("/api/v1/cycles", s.handleStartCycle)
		r.Put("/api/v1/cycles/{id}/maxes/{lift}", s.handleSetTrainingMax)
		r.Post("/api/v1/cycles/{id}/linear-logs", s.handleLogLinear)
		r.Delete("/api/v1/cycles/{id}/linear-logs", s.handleClearLinear)
		r.Put("/api/v1/cycles/{id}/set-logs", s.handleLogStructuredSet)
		r.Delete("/api/v1/cycles/{id}/set-logs", s.handleClearStructuredSet)
		r.Put("/api/v1/cycles/{id}/overrides", s.handleSetOverride)
		r.Delete("/api/v1/cycles/{id}/overrides", s.handleClearOverride)
		r.Post("/api/v1/import/sets", s.handleImportSets)
	})

	// Read-side program state.
	s.router.Get("/api/v1/cycles/current", s.handleCurrentCycle)
	s.router.Get("/api/v1/cycles/{id}/maxes", s.handleGetTrainingMaxes)
	s.router.Get("/api/v1/cycles/{id}/plan", s.handleGetDayPlan)
	s.router.Get("/api/v1/cycles/{id}/logs", s.handleQueryLogs)
	s.router.Get("/api/v1/archive/sets", s.handleQueryArchive)
}
