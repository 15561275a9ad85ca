package cli

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vcutpro/vcut/internal/config"
)

func newCutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cut <input>",
		Short: "Cut a single clip at explicit MM:SS timecodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCut(cmd, args[0])
		},
	}

	cmd.Flags().String("start", "", "Start timecode (MM:SS)")
	cmd.Flags().String("end", "", "End timecode (MM:SS)")
	cmd.Flags().String("title", "", "Clip title")
	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Bool("json", false, "Print the manifest as JSON instead of a table")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runCut(cmd *cobra.Command, input string) error {
	startTC, _ := cmd.Flags().GetString("start")
	endTC, _ := cmd.Flags().GetString("end")
	title, _ := cmd.Flags().GetString("title")
	outDir, _ := cmd.Flags().GetString("out")
	asJSON, _ := cmd.Flags().GetBool("json")

	if startTC == "" || endTC == "" {
		return errors.New("both --start and --end are required")
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	p, err := buildPipeline(config.Load())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Hour)
	defer cancel()

	manifest, err := p.ManualCut(ctx, absIn, outDir, startTC, endTC, title)
	if err != nil {
		return err
	}

	return printManifest(cmd, manifest, asJSON)
}
