package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"
)

// Server wraps the admin backend's http.Server. Header reads are bounded
// separately so a slow-loris client cannot hold a connection open while
// the body timeouts stay generous enough for form posts.
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      20 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("admin backend listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("admin backend draining")
	return s.http.Shutdown(ctx)
}
