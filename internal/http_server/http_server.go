// Package http_server owns the HTTP listener lifecycle around the gin
// engine.
package http_server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/handler"
	"w9ayt_delivery_server/internal/router"
)

// Server wraps http.Server with graceful shutdown.
type Server struct {
	srv *http.Server
}

// New builds the listener over the assembled router.
func New(cfg *config.Config, handlers *handler.Handlers) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.MainConfig.Host, cfg.MainConfig.Port),
			Handler:           router.New(cfg, handlers),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run blocks serving requests until Shutdown.
func (s *Server) Run() error {
	zap.L().Info("http server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
