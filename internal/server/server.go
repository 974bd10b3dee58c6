// ABOUTME: HTTP API for the browser client: chat, continuation, suggestions, debug tuning and config
// ABOUTME: JSON in and out; validation failures are 400, everything else is 500 with an error message
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server is the museum guide HTTP API
type Server struct {
	service    *chat.Service
	httpServer *http.Server
	startTime  time.Time
	version    string
	logger     zerolog.Logger
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// New creates a server listening on addr
func New(addr string, service *chat.Service, version string, logger zerolog.Logger) *Server {
	s := &Server{
		service:   service,
		startTime: time.Now(),
		version:   version,
		logger:    logging.Component(logger, "http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/message", s.messageHandler)
	mux.HandleFunc("POST /api/chat/continue", s.continueHandler)
	mux.HandleFunc("POST /api/chat/suggest-questions", s.suggestHandler)
	mux.HandleFunc("POST /api/chat/adjust-prompt", s.adjustPromptHandler)
	mux.HandleFunc("POST /api/chat/chat-with-role", s.chatWithRoleHandler)
	mux.HandleFunc("POST /api/debug/export", s.exportHandler)
	mux.HandleFunc("GET /api/config/default-prompts", s.defaultPromptsHandler)
	mux.HandleFunc("GET /api/config/models", s.modelsHandler)
	mux.HandleFunc("GET /api/health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           withCORS(s.withMetrics(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the full middleware stack, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to grace
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(s.Start)
	eg.Go(func() error {
		<-ctx.Done()
		s.logger.Info().Msg("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
