// Package ports declares the contracts the pipeline depends on. Adapters
// under ports/adapters wrap the external tools that fulfil them.
package ports

import (
	"context"

	"github.com/vcutpro/vcut/internal/types"
)

// EncodeRequest is a fully resolved encode invocation: the pipeline decides
// what to ask for, the encoder executes it.
type EncodeRequest struct {
	Input       string
	Output      string
	Start       float64 // seconds
	Duration    float64 // seconds
	FilterGraph string  // ffmpeg -vf expression, empty for none
	CodecArgs   []string
}

// MediaProber reports a video's duration in seconds.
type MediaProber interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// MediaEncoder runs one encode request. A failed encode returns an error and
// must never crash the caller.
type MediaEncoder interface {
	Encode(ctx context.Context, req EncodeRequest) error
}

// AudioExtractor produces the mono 16 kHz wav the transcriber consumes.
type AudioExtractor interface {
	ExtractAudioMono16k(ctx context.Context, input, outWav string) error
}

// Transcriber returns ordered transcript segments for a wav file.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// SentimentAnalyzer returns a label + confidence for one text span.
type SentimentAnalyzer interface {
	Analyze(text string) types.Sentiment
}

// SceneDetector returns shot-boundary timestamps ascending by time.
type SceneDetector interface {
	DetectScenes(ctx context.Context, path string, threshold float64) ([]types.SceneChange, error)
}

// SilenceDetector returns non-overlapping silent intervals longer than one
// second, ascending by start.
type SilenceDetector interface {
	DetectSilence(ctx context.Context, path string) ([]types.SilenceInterval, error)
}
