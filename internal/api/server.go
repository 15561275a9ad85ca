// Package api exposes the clipping pipeline over HTTP. Uploads are
// accepted synchronously; clipping itself runs in the background and is
// polled through the job store.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vcutpro/vcut/internal/jobstore"
	"github.com/vcutpro/vcut/internal/upload"
)

type ServerConfig struct {
	ListenAddr string
	Store      jobstore.Store
	Uploads    *upload.Manager
	Clipper    Clipper
	Logger     zerolog.Logger
	StartTime  time.Time
}

type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

func NewServer(cfg ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.ListenAddr,
			Handler:     NewRouter(cfg),
			ReadTimeout: 15 * time.Second,
			// Uploads and downloads of full videos can be slow.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
