package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcutpro/vcut/internal/api"
	"github.com/vcutpro/vcut/internal/config"
	"github.com/vcutpro/vcut/internal/jobstore"
	"github.com/vcutpro/vcut/internal/logging"
	"github.com/vcutpro/vcut/internal/upload"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the clipping service daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Serve(cmd.Context())
		},
	}
}

// Serve runs the HTTP daemon until the context is cancelled or a shutdown
// signal arrives.
func Serve(ctx context.Context) error {
	startTime := time.Now()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger := logging.New(cfg.LogLevel, false)
	logger.Info().
		Str("store", cfg.StoreBackend).
		Str("addr", cfg.ListenAddr).
		Msg("starting vcut daemon")

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer store.Close()

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(api.ServerConfig{
		ListenAddr: cfg.ListenAddr,
		Store:      store,
		Uploads:    upload.NewManager(filepath.Join(cfg.DataDir, "uploads"), cfg.MaxUploadBytes),
		Clipper:    p,
		Logger:     logger,
		StartTime:  startTime,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case <-ctx.Done():
		logger.Info().Msg("context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func openStore(cfg config.Config) (jobstore.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return jobstore.NewSQLite(cfg.SQLitePath)
	case "redis":
		return jobstore.NewRedis(cfg.RedisURL)
	default:
		return jobstore.NewMemory(), nil
	}
}
