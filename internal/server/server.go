package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Denis-Shtanskiy/foodgram/config"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	http *http.Server
	log  *zap.Logger
}

// New builds the server around a configured router.
func New(cfg *config.Config, router *gin.Engine, log *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
		log: log,
	}
}

// Start blocks serving requests until the listener fails or is shut down.
func (s *Server) Start() error {
	s.log.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
