// Package server provides the thin HTTP delivery layer: the stat-card
// endpoint, a health check, and a JSON listing of tracked games.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
	"github.com/kvba0000/gms-stats-tracker-go/internal/logger"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
)

// CardSource is the tracker-side contract the server consumes.
type CardSource interface {
	GetCard(ctx context.Context, id int) ([]byte, bool)
	Games() []model.GameRecord
	ContentType() string
}

// Server serves stat cards and the JSON API.
type Server struct {
	addr string
	log  *logger.Logger
	src  CardSource
	srv  *http.Server
}

// New creates a Server bound to the given address.
func New(addr string, src CardSource, log *logger.Logger) *Server {
	s := &Server{
		addr: addr,
		log:  log,
		src:  src,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /stat", s.handleStat)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/games", s.handleGames)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           withLogging(log, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.Background()
		},
	}

	return s
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("HTTP server starting", "addr", s.addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultGracefulShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func withLogging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
