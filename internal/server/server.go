// Package server exposes the validation engine over HTTP. All endpoints
// are stateless except the stage registry, which persists validated,
// normalized definitions only.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/wfstage/internal/config"
	"github.com/me/wfstage/internal/store"
	"github.com/me/wfstage/internal/validator"
)

// Server is the wfstage REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	validator *validator.Validator
	store     store.Store
}

// New creates a Server with all routes registered. st may be nil, in
// which case the stage registry endpoints respond 404.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger) *Server {
	var opts []validator.Option
	if cfg.MaxDepth > 0 {
		opts = append(opts, validator.WithMaxDepth(cfg.MaxDepth))
	}

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		validator: validator.New(logger, opts...),
		store:     st,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Stateless validation
		r.Post("/validate", s.handleValidate)

		// Stage registry
		if s.store != nil {
			r.Route("/stages", func(r chi.Router) {
				r.Get("/", s.handleListStages)
				r.Post("/", s.handleCreateStage)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetStage)
					r.Delete("/", s.handleDeleteStage)
				})
			})
		}
	})
}
