package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcutpro/vcut/internal/config"
	"github.com/vcutpro/vcut/internal/pipeline"
	"github.com/vcutpro/vcut/internal/types"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Select and render clips from a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClipping(cmd, args[0])
		},
	}

	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().String("mode", "heuristic", "Selection mode: heuristic or content")
	cmd.Flags().Int("clips", 0, "Number of clips (0 = configured default)")
	cmd.Flags().Bool("json", false, "Print the manifest as JSON instead of a table")

	return cmd
}

func runClipping(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	modeFlag, _ := cmd.Flags().GetString("mode")
	clipsN, _ := cmd.Flags().GetInt("clips")
	asJSON, _ := cmd.Flags().GetBool("json")

	mode := pipeline.Mode(modeFlag)
	if mode != pipeline.ModeHeuristic && mode != pipeline.ModeContent {
		return fmt.Errorf("unknown mode %q (want heuristic or content)", modeFlag)
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if clipsN > 0 {
		cfg.TargetClips = clipsN
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()

	in := pipeline.Input{
		VideoPath: absIn,
		OutDir:    outDir,
		Mode:      mode,
		Progress: func(stage string, percent int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", percent, stage)
		},
	}

	if mode == pipeline.ModeContent {
		signals, err := p.CollectSignals(ctx, absIn, filepath.Join(outDir, ".cache"))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "signal collection failed (%v), continuing without\n", err)
		} else {
			in.Signals = signals
		}
	}

	manifest, err := p.Run(ctx, in)
	if err != nil {
		return err
	}

	return printManifest(cmd, manifest, asJSON)
}

func printManifest(cmd *cobra.Command, manifest types.Manifest, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderManifestTable(manifest))
	return nil
}
