package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the latest snapshot to display clients over HTTP.
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// New builds the router. When token is non-empty every route except /ping
// requires it.
func New(addr, token string, h *Handler, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	if token != "" {
		router.Use(AuthMiddleware(token))
	}
	h.Register(router)

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
