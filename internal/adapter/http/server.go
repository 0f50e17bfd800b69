package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/sentiment-map/internal/domain"
	"github.com/couchcryptid/sentiment-map/internal/render"
	"github.com/couchcryptid/sentiment-map/internal/sentiment"
)

// MapSource serves the rendered layer and gates readiness on it.
type MapSource interface {
	sharedobs.ReadinessChecker
	Map() (render.Map, bool)
	Generation() uint64
}

// DetailSource builds the info panel view for a department.
type DetailSource interface {
	Detail(code string) (render.Detail, bool)
}

// SentimentSummary reports the loaded sentiment set.
type SentimentSummary interface {
	Summary() sentiment.Summary
}

// RegionSummary reports the loaded boundary set.
type RegionSummary interface {
	Regions() []domain.RegionFeature
	Fallback() bool
}

// API groups the read models behind the map endpoints.
type API struct {
	Map       MapSource
	Details   DetailSource
	Sentiment SentimentSummary
	Regions   RegionSummary
}

// Server exposes the map API alongside health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	api        API
	logger     *slog.Logger
}

// NewServer creates an HTTP server. corsOrigins lists the front-end origins
// allowed to call /api.
func NewServer(addr string, corsOrigins []string, api API, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		logger: logger,
	}

	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(api.Map))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(ar chi.Router) {
		ar.Use(middleware.Timeout(20 * time.Second))
		ar.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
		ar.Get("/map", s.handleMap)
		ar.Get("/summary", s.handleSummary)
		ar.Get("/departments/{code}", s.handleDetail)
		ar.Get("/departments/{code}/panel", s.handlePanel)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
