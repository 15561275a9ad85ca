// Package pipeline sequences probe, scoring, refinement and rendering into
// one clipping run and returns the resulting manifest.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vcutpro/vcut/internal/config"
	"github.com/vcutpro/vcut/internal/domain/segments"
	"github.com/vcutpro/vcut/internal/ports"
	"github.com/vcutpro/vcut/internal/render"
	"github.com/vcutpro/vcut/internal/types"
)

// Mode selects the scoring strategy.
type Mode string

const (
	ModeHeuristic Mode = "heuristic"
	ModeContent   Mode = "content"
)

// ProgressFunc reports completed stages. Progress reflects actual work
// (probe done, scoring done, Nth clip rendered), never simulated delays.
type ProgressFunc func(stage string, percent int)

// Deps are the external collaborators one pipeline needs. Everything is an
// interface so tests can run the whole pipeline against fakes.
type Deps struct {
	Prober      ports.MediaProber
	Encoder     ports.MediaEncoder
	Audio       ports.AudioExtractor
	Transcriber ports.Transcriber
	Sentiment   ports.SentimentAnalyzer
	Scenes      ports.SceneDetector
	Silence     ports.SilenceDetector
}

type Pipeline struct {
	cfg      config.Config
	deps     Deps
	renderer *render.Renderer
	logger   zerolog.Logger

	// newRand is swapped in tests for deterministic heuristic runs.
	newRand func() *rand.Rand
}

func New(cfg config.Config, deps Deps, logger zerolog.Logger) *Pipeline {
	renderer := render.New(deps.Encoder, render.Options{
		Width:   cfg.OutputWidth,
		Height:  cfg.OutputHeight,
		FPS:     cfg.OutputFPS,
		Caption: true,
		Retries: cfg.EncodeRetries,
	}, logger)

	return &Pipeline{
		cfg:      cfg,
		deps:     deps,
		renderer: renderer,
		logger:   logger.With().Str("component", "pipeline").Logger(),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

type Input struct {
	VideoPath string
	OutDir    string
	Mode      Mode
	Signals   *types.ContentSignals
	Progress  ProgressFunc
}

// Run executes one full clipping run. Per-candidate failures are dropped and
// logged; only whole-run problems (unreadable source, cancellation) surface
// as errors. An empty manifest is a valid completed run.
func (p *Pipeline) Run(ctx context.Context, in Input) (types.Manifest, error) {
	progress := in.Progress
	if progress == nil {
		progress = func(string, int) {}
	}

	if _, err := os.Stat(in.VideoPath); err != nil {
		return types.Manifest{}, fmt.Errorf("source video unreadable: %w", err)
	}
	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return types.Manifest{}, err
	}

	videoDur := p.probeDuration(ctx, in.VideoPath)
	progress("probe complete", 10)

	cands := p.score(videoDur, in)
	progress("scoring complete", 20)
	p.logger.Info().
		Int("candidates", len(cands)).
		Float64("video_duration", videoDur).
		Str("mode", string(in.Mode)).
		Msg("candidates scored")

	var scenes []types.SceneChange
	if in.Signals != nil {
		scenes = in.Signals.Scenes
	}

	clips := p.renderCandidates(ctx, in, cands, videoDur, scenes, progress)
	if err := ctx.Err(); err != nil {
		return types.Manifest{}, err
	}

	sortManifest(clips)
	progress("completed", 100)
	p.logger.Info().
		Int("requested", len(cands)).
		Int("rendered", len(clips)).
		Msg("run complete")

	return types.Manifest{Input: in.VideoPath, Clips: clips}, nil
}

// probeDuration is best-effort: any probe failure falls back to the
// configured default and the run continues with that bound.
func (p *Pipeline) probeDuration(ctx context.Context, path string) float64 {
	dur, err := p.deps.Prober.Probe(ctx, path)
	if err != nil || dur <= 0 {
		p.logger.Warn().Err(err).
			Float64("fallback", p.cfg.FallbackDuration).
			Msg("duration probe failed, using fallback")
		return p.cfg.FallbackDuration
	}
	return dur
}

func (p *Pipeline) score(videoDur float64, in Input) []types.Candidate {
	if in.Mode == ModeContent {
		if in.Signals != nil && len(in.Signals.Transcript.Segments) > 0 {
			scorer := segments.NewContentScorer(
				p.cfg.TargetClips,
				segments.Bounds{Min: p.cfg.MinClipSeconds, Max: p.cfg.MaxClipSeconds},
				p.cfg.ImpactKeywords,
			)
			return scorer.Score(videoDur, in.Signals)
		}
		p.logger.Warn().Msg("content mode without transcript signals, falling back to heuristic scoring")
	}

	scorer := segments.NewHeuristicScorer(
		p.cfg.TargetClips,
		segments.Bounds{Min: p.cfg.HeuristicMinClip, Max: p.cfg.HeuristicMaxClip},
		p.newRand(),
	)
	return scorer.Score(videoDur, nil)
}

// renderCandidates refines and renders candidates on a bounded worker pool.
// Candidates have no data dependency on each other; encoding is the CPU-heavy
// step, so fan-out stays bounded.
func (p *Pipeline) renderCandidates(
	ctx context.Context,
	in Input,
	cands []types.Candidate,
	videoDur float64,
	scenes []types.SceneChange,
	progress ProgressFunc,
) []types.ClipResult {
	bounds := segments.Bounds{Min: p.cfg.MinClipSeconds, Max: p.cfg.MaxClipSeconds}

	type outcome struct {
		clip types.ClipResult
		err  error
	}
	outcomes := make([]outcome, len(cands))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	sem := make(chan struct{}, p.cfg.RenderWorkers)

	for i, cand := range cands {
		// Cooperative cancellation between candidates.
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, cand types.Candidate) {
			defer wg.Done()
			defer func() { <-sem }()

			clipID := fmt.Sprintf("clip_%d", i+1)
			refined, err := segments.Refine(cand, videoDur, scenes, bounds)
			if err != nil {
				outcomes[i] = outcome{err: err}
				p.logger.Warn().Err(err).Str("clip", clipID).Msg("candidate dropped during refinement")
				return
			}

			clip, err := p.renderer.Render(ctx, in.VideoPath, refined, in.OutDir, clipID)
			if err != nil {
				outcomes[i] = outcome{err: err}
				p.logger.Warn().Err(err).Str("clip", clipID).Msg("candidate dropped during render")
				return
			}
			outcomes[i] = outcome{clip: clip}

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			progress(fmt.Sprintf("rendered %d/%d", n, len(cands)), 20+n*75/len(cands))
		}(i, cand)
	}
	wg.Wait()

	clips := make([]types.ClipResult, 0, len(cands))
	for _, o := range outcomes {
		if o.err == nil && o.clip.ID != "" {
			clips = append(clips, o.clip)
		}
	}
	return clips
}

// CollectSignals gathers the content signals for content-driven scoring:
// transcript, per-segment sentiment, scene changes and silences. Scene and
// silence detection are best-effort; transcription failure aborts since the
// content strategy cannot rank without it.
func (p *Pipeline) CollectSignals(ctx context.Context, videoPath, cacheDir string) (*types.ContentSignals, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}

	wav := filepath.Join(cacheDir, "audio.wav")
	if err := p.deps.Audio.ExtractAudioMono16k(ctx, videoPath, wav); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	tr, err := p.deps.Transcriber.Transcribe(ctx, wav, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	p.logger.Info().Int("segments", len(tr.Segments)).Msg("transcription complete")

	signals := &types.ContentSignals{Transcript: tr}
	for _, seg := range tr.Segments {
		signals.Sentiments = append(signals.Sentiments, p.deps.Sentiment.Analyze(seg.Text))
	}

	scenes, err := p.deps.Scenes.DetectScenes(ctx, videoPath, p.cfg.SceneThreshold)
	if err != nil {
		p.logger.Warn().Err(err).Msg("scene detection failed, continuing without scene snapping")
	} else {
		signals.Scenes = scenes
	}

	silences, err := p.deps.Silence.DetectSilence(ctx, videoPath)
	if err != nil {
		p.logger.Warn().Err(err).Msg("silence detection failed, continuing without silence intervals")
	} else {
		signals.Silences = silences
	}

	return signals, nil
}

// sortManifest orders clips by score descending, ties broken by ascending
// start time.
func sortManifest(clips []types.ClipResult) {
	sort.SliceStable(clips, func(i, j int) bool {
		if clips[i].Score != clips[j].Score {
			return clips[i].Score > clips[j].Score
		}
		return clips[i].StartTime < clips[j].StartTime
	})
}
