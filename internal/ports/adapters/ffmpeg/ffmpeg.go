// Package ffmpeg wraps the ffmpeg/ffprobe binaries behind the media ports.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vcutpro/vcut/internal/ports"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	logger  zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, logger zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		logger:  logger.With().Str("component", "ffmpeg").Logger(),
	}
}

// Probe returns the container duration in seconds.
func (a *Adapter) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if sec < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return sec, nil
}

// Encode runs one fully specified encode request.
func (a *Adapter) Encode(ctx context.Context, req ports.EncodeRequest) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(req.Start),
		"-t", fmtSeconds(req.Duration),
		"-i", req.Input,
	}
	if req.FilterGraph != "" {
		args = append(args, "-vf", req.FilterGraph)
	}
	args = append(args, req.CodecArgs...)
	args = append(args, req.Output)

	a.logger.Debug().Strs("args", args).Msg("running encode")
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg encode: %w\n%s", err, tail(string(b), 2000))
	}
	return nil
}

// ExtractAudioMono16k writes the mono 16 kHz wav the transcriber consumes.
func (a *Adapter) ExtractAudioMono16k(ctx context.Context, input, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, tail(string(b), 2000))
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// tail keeps error output readable when ffmpeg dumps a long log.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

var (
	_ ports.MediaProber    = (*Adapter)(nil)
	_ ports.MediaEncoder   = (*Adapter)(nil)
	_ ports.AudioExtractor = (*Adapter)(nil)
)
