package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tokenfactory/internal/factory"
	"tokenfactory/internal/host"
)

// Server represents the HTTP API server
// Provides endpoints for the factory entry points, Prometheus metrics, and
// health checks
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	factory    *factory.Factory
	host       host.Host
	port       int
}

// NewServer creates a new API server instance over the factory and its host
func NewServer(port int, f *factory.Factory, h host.Host) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:     mux,
		factory: f,
		host:    h,
		port:    port,
	}

	// Register all HTTP routes
	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", s.handleMetrics())

	// Factory entry points
	s.mux.HandleFunc("/initialize", s.handleInitialize)
	s.mux.HandleFunc("/fees", s.handleUpdateFees)
	s.mux.HandleFunc("/state", s.handleGetState)
	s.mux.HandleFunc("/faucet", s.handleFaucet)

	// Registry endpoints
	s.mux.HandleFunc("/tokens", s.handleTokens)
	s.mux.HandleFunc("/tokens/", s.handleTokenRoutes)
}

// handleTokens routes the registry collection (without trailing slash)
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTokens(w, r)
	case http.MethodPost:
		s.handleCreateToken(w, r)
	default:
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTokenRoutes routes registry sub-endpoints (with trailing slash)
func (s *Server) handleTokenRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/tokens/")
	parts := strings.Split(path, "/")

	// GET /tokens/count
	if len(parts) == 1 && parts[0] == "count" {
		s.handleTokenCount(w, r)
		return
	}

	// GET /tokens/{index}
	if len(parts) == 1 && parts[0] != "" {
		s.handleGetToken(w, r, parts[0])
		return
	}

	s.sendError(w, "Endpoint not found", http.StatusNotFound)
}

// Start starts the HTTP server in a goroutine
// Returns immediately after starting the server
func (s *Server) Start() error {
	go func() {
		slog.Info("API server starting",
			"port", s.port,
			"endpoints", []string{"/", "/health", "/metrics", "/initialize", "/fees", "/state", "/tokens"},
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("API server shutting down...")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route mux for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}
