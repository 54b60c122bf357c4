package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/retime/retime-agent/internal/history"
	"github.com/retime/retime-agent/internal/host"
	"github.com/retime/retime-agent/internal/settings"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Repository history.Repository
	Settings   *settings.Store
	Bridge     *host.Bridge
	Logger     *slog.Logger
	StartTime  time.Time
	DeviceID   string
	Version    string

	// applyMu serializes batch runs: the host timeline is a single
	// shared resource and there is never more than one writer.
	applyMu *sync.Mutex
}

func NewServer(cfg ServerConfig) *Server {
	cfg.applyMu = &sync.Mutex{}
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
