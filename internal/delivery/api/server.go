package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"marcador/pkg/config"
)

const shutdownTimeout = 5 * time.Second

// Server runs the HTTP API as a managed service.
type Server struct {
	cfg        config.HTTPConfig
	log        Logger
	httpServer *http.Server
	listener   net.Listener
}

func NewServer(cfg config.HTTPConfig, handler http.Handler, log Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Init binds the port so that a busy address fails startup.
func (s *Server) Init() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

func (s *Server) Run(ctx context.Context) {
	s.log.Info("http server listening on %s", s.listener.Addr())
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("http server error: %v", err)
	}
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("http server shutdown error: %v", err)
	}
}

// Addr reports the bound address once Init has run.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}
