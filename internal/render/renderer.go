// Package render turns a refined segment into an encode request and a
// ClipResult for the manifest.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/vcutpro/vcut/internal/ports"
	"github.com/vcutpro/vcut/internal/types"
)

type Options struct {
	Width   int
	Height  int
	FPS     int
	Caption bool
	// Retries is the number of extra encode attempts after a failure.
	// Transient resource contention is the usual transient failure here.
	Retries int
}

type Renderer struct {
	encoder ports.MediaEncoder
	opts    Options
	logger  zerolog.Logger
}

func New(encoder ports.MediaEncoder, opts Options, logger zerolog.Logger) *Renderer {
	return &Renderer{
		encoder: encoder,
		opts:    opts,
		logger:  logger.With().Str("component", "render").Logger(),
	}
}

// Render encodes one refined segment into outDir. The clip id must be unique
// within the run's manifest; callers assign it. A failed encode returns an
// error and no ClipResult; the caller skips the candidate.
func (r *Renderer) Render(ctx context.Context, input string, seg types.Refined, outDir, clipID string) (types.ClipResult, error) {
	filename := clipFilename(clipID, seg.Title)
	outPath := filepath.Join(outDir, filename)

	caption := ""
	if r.opts.Caption {
		caption = seg.Description
	}

	req := ports.EncodeRequest{
		Input:       input,
		Output:      outPath,
		Start:       seg.Start,
		Duration:    seg.Duration,
		FilterGraph: FilterGraph(r.opts.Width, r.opts.Height, caption),
		CodecArgs:   CodecArgs(r.opts.FPS),
	}

	var err error
	for attempt := 0; attempt <= r.opts.Retries; attempt++ {
		if attempt > 0 {
			r.logger.Warn().Str("clip", clipID).Int("attempt", attempt+1).Msg("retrying encode")
		}
		if err = r.encoder.Encode(ctx, req); err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		return types.ClipResult{}, fmt.Errorf("render %s: %w", clipID, err)
	}

	return types.ClipResult{
		ID:            clipID,
		Filename:      filename,
		FilePath:      outPath,
		StartTime:     seg.Start,
		Duration:      seg.Duration,
		Score:         seg.Score,
		Title:         seg.Title,
		Description:   seg.Description,
		Platform:      seg.Platform,
		Provenance:    seg.Provenance,
		FileSizeBytes: fileSize(outPath),
	}, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func clipFilename(clipID, title string) string {
	slug := slugify(title)
	if slug == "" {
		return clipID + ".mp4"
	}
	return fmt.Sprintf("%s_%s.mp4", clipID, slug)
}

func slugify(s string) string {
	var b strings.Builder
	prevUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
