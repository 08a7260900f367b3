package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/interview-engine/internal/orchestrator"
	"github.com/terra-clan/interview-engine/internal/provider"
	"github.com/terra-clan/interview-engine/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	router       *chi.Mux
	orchestrator *orchestrator.Orchestrator
	providers    *provider.Registry
	repo         storage.Repository
	validate     *validator.Validate
}

// NewServer creates a new API server
func NewServer(o *orchestrator.Orchestrator, providers *provider.Registry, repo storage.Repository) *Server {
	s := &Server{
		orchestrator: o,
		providers:    providers,
		repo:         repo,
		validate:     validator.New(),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Interview action stream
	r.Get("/ws/{session_id}", s.handleInterviewWS)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/interviews", func(r chi.Router) {
			r.Post("/", s.handleStartInterview)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetInterview)
				r.Post("/advance", s.handleAdvance)
				r.Post("/responses", s.handleSubmitResponse)
				r.Get("/summary", s.handleGetSummary)
				r.Post("/end", s.handleEndInterview)
			})
		})

		// Archived reports
		r.Get("/reports/{id}", s.handleGetReport)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
