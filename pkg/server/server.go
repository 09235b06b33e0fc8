// Package server exposes the knowledge graph system over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	kag "github.com/soundprediction/go-kag"
	"github.com/soundprediction/go-kag/pkg/config"
	"github.com/soundprediction/go-kag/pkg/server/handlers"
)

// Server is a thin HTTP shell over kag.System.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New builds the router and binds it to the configured address.
func New(cfg config.ServerConfig, system *kag.System, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	health := handlers.NewHealthHandler()
	process := handlers.NewProcessHandler(system)
	ask := handlers.NewAskHandler(system)

	engine.GET("/healthcheck", health.Health)
	engine.POST("/process", process.Process)
	engine.GET("/stats", process.Stats)
	engine.DELETE("/graph", process.Clear)
	engine.POST("/ask", ask.Ask)
	engine.POST("/ask/compare", ask.Compare)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return &Server{
		engine: engine,
		logger: logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
