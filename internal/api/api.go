// Package api serves the read-only HTTP surface over fleet state: the
// latest snapshot, failure-tracking table, and aggregate analytics.
//
// # Endpoints
//
//   - GET /ping/latest            - latest snapshot row per address
//   - GET /ping/latest/{address}  - latest snapshot row for one address
//   - GET /ping/down              - addresses currently tracked as failing
//   - GET /ping/analytics         - aggregate health over a time range
//   - GET /ping/csv/files         - per-day CSV file inventory
//   - GET /ping/service/status    - orchestrator config and live counters
//
// The server structure (ServeMux + CORS-then-delegate ServeHTTP wrapper,
// writeJSON helper) is adapted from the control plane's API
// server; the response envelope is {success, data, error} rather than the
// control plane's bare {error}, per the wire contract this system exposes.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pilot-net/fleetwatch/internal/analytics"
	"github.com/pilot-net/fleetwatch/internal/cache"
	"github.com/pilot-net/fleetwatch/internal/failtrack"
	"github.com/pilot-net/fleetwatch/internal/procstats"
	"github.com/pilot-net/fleetwatch/internal/snapshot"
)

// Server is the read-only HTTP API server.
type Server struct {
	snap      *snapshot.Store
	failures  *failtrack.Tracker
	analytics *analytics.Appender
	cache     *cache.Cache
	cacheTTL  time.Duration
	proc      *procstats.Collector
	logger    *slog.Logger
	mux       *http.ServeMux
	startedAt time.Time
}

// NewServer builds a Server and registers its routes. cache may be nil, in
// which case responses are never cached.
func NewServer(snap *snapshot.Store, failures *failtrack.Tracker, an *analytics.Appender, c *cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		snap:      snap,
		failures:  failures,
		analytics: an,
		cache:     c,
		cacheTTL:  cacheTTL,
		proc:      procstats.New(30 * time.Second),
		logger:    logger.With("component", "api"),
		mux:       http.NewServeMux(),
		startedAt: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /ping/latest", s.handleLatest)
	s.mux.HandleFunc("GET /ping/latest/{address}", s.handleLatestOne)
	s.mux.HandleFunc("GET /ping/down", s.handleDown)
	s.mux.HandleFunc("GET /ping/analytics", s.handleAnalytics)
	s.mux.HandleFunc("GET /ping/csv/files", s.handleCSVFiles)
	s.mux.HandleFunc("GET /ping/service/status", s.handleServiceStatus)
}

// ServeHTTP implements http.Handler, adding CORS headers and timing/logging
// every request before delegating to the mux, the same wrapping shape the
// control plane's API server uses.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request served", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{Success: false, Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// cached serves a cacheable GET by key, populating it via fetch on miss.
func (s *Server) cached(ctx context.Context, w http.ResponseWriter, key string, fetch func() (any, error)) {
	if s.cache != nil {
		var cached any
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			s.writeData(w, http.StatusOK, cached)
			return
		}
	}

	data, err := fetch()
	if err != nil {
		s.logger.Error("handler fetch failed", "key", key, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warn("response cache write failed", "key", key, "error", err)
		}
	}
	s.writeData(w, http.StatusOK, data)
}
