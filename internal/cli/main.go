// Package cli wires the clipping pipeline into the vcut command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vcutpro/vcut/internal/config"
	"github.com/vcutpro/vcut/internal/logging"
	"github.com/vcutpro/vcut/internal/pipeline"
	"github.com/vcutpro/vcut/internal/ports/adapters/ffmpeg"
	"github.com/vcutpro/vcut/internal/ports/adapters/lexicon"
	"github.com/vcutpro/vcut/internal/ports/adapters/whispercpp"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "vcut",
		Short:        "Cut short vertical clips from longer videos",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.AddCommand(newRunCmd())
	root.AddCommand(newCutCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildPipeline assembles the adapters and pipeline shared by the run and
// cut commands.
func buildPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, true)
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, logger)

	deps := pipeline.Deps{
		Prober:      media,
		Encoder:     media,
		Audio:       media,
		Transcriber: whispercpp.New(cfg.WhisperBin, cfg.WhisperModel),
		Sentiment:   lexicon.New(),
		Scenes:      media,
		Silence:     media,
	}
	return pipeline.New(cfg, deps, logger), nil
}
