// Package api exposes the proposal generation service over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"propgen/internal/config"
	"propgen/internal/llm"
	"propgen/internal/pipeline"
	"propgen/internal/synth"
)

// Server is the HTTP API server for propgen.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	synth        *synth.Synthesizer
	model        llm.Completer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, sy *synth.Synthesizer, model llm.Completer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		synth:        sy,
		model:        model,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Post("/api/proposals", s.handleCreateProposal)
	r.Get("/api/proposals/{jobID}/status", s.handleStatus)
	r.Get("/api/proposals/{jobID}/structure", s.handleStructure)
	r.Delete("/api/proposals/{jobID}", s.handleCleanup)

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/downloads/{filename}", s.handleDownload)

	s.router = r
}
