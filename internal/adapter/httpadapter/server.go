// Package httpadapter serves the loaded earthquakes table over HTTP, along
// with health, readiness, and metrics endpoints.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-data-loader/internal/domain"
	"github.com/couchcryptid/quake-data-loader/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EarthquakeQuerier reads earthquakes and reports whether its database is reachable.
type EarthquakeQuerier interface {
	sharedobs.ReadinessChecker
	Query(ctx context.Context, f domain.Filter) ([]domain.Earthquake, error)
}

// Server exposes /earthquakes plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	querier    EarthquakeQuerier
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server bound to addr.
func NewServer(addr string, q EarthquakeQuerier, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		querier: q,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /earthquakes", s.handleEarthquakes)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(q))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

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

func (s *Server) handleEarthquakes(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	earthquakes, err := s.querier.Query(r.Context(), f)
	if err != nil {
		s.logger.Error("error querying earthquakes", "error", err)
		s.respond(w, http.StatusInternalServerError, map[string]string{"error": "database query error"})
		return
	}

	s.logger.Debug("retrieved earthquakes", "count", len(earthquakes))
	s.respond(w, http.StatusOK, earthquakes)
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	s.metrics.QueryRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	sharedobs.WriteJSON(w, status, v)
}
