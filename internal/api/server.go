package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/mindgest/internal/llm"
	"github.com/dgallion1/mindgest/internal/notebook"
	"github.com/dgallion1/mindgest/internal/pipeline"
)

// Options holds the request limits and credentials of the API.
type Options struct {
	// APIKey enables bearer authentication when set.
	APIKey         string
	MaxUploadBytes int64
	// Backend is the configured backend kind, reported by /health.
	Backend string
	// Model is reported by /api/stats/llm.
	Model string
}

// Server is the HTTP API server for mindgest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	builder      *notebook.Builder
	stats        *llm.Stats
	log          *slog.Logger
	opts         Options
}

// NewServer creates and configures the HTTP server. stats may be nil when no
// backend is configured.
func NewServer(orch *pipeline.Orchestrator, builder *notebook.Builder, stats *llm.Stats, log *slog.Logger, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	s := &Server{
		orchestrator: orch,
		builder:      builder,
		stats:        stats,
		log:          log,
		opts:         opts,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.opts.APIKey, s.log))

		r.Post("/api/mindmap", s.handleGenerate)
		r.Post("/api/mindmap/subject", s.handleSubject)
		r.Post("/api/mindmap/upload", s.handleUpload)
		r.Get("/api/mindmap/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := s.opts.Backend
	if backend == "" {
		backend = llm.KindNone
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"backend":     backend,
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
