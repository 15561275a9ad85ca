package segments

import (
	"fmt"
	"math/rand"

	"github.com/vcutpro/vcut/internal/types"
)

// Presentation strings rotated across heuristic candidates. They carry no
// informational content; the provenance tag on each candidate records that.
var (
	heuristicTitles = []string{
		"Epic Moment",
		"Key Highlight",
		"Must-See Scene",
		"Best Part",
		"Viral Moment",
		"Premium Clip",
		"Standout Scene",
		"Golden Highlight",
		"Top Moment",
		"Special Clip",
	}
	heuristicDescriptions = []string{
		"High-relevance content detected",
		"Moment with strong engagement potential",
		"Scene with striking visual elements",
		"Segment optimized for social feeds",
		"Premium content identified",
		"Moment with high information density",
		"Scene with the best audiovisual quality",
		"Segment with strong visual impact",
	}
	heuristicPlatforms = []string{
		"Instagram Reels",
		"TikTok",
		"WhatsApp Status",
		"YouTube Shorts",
	}
)

// HeuristicScorer generates candidates without any content signals. Scores
// are synthetic numbers drawn from a fixed plausible range and carry no
// semantic meaning; the provenance tag keeps the manifest honest about that.
type HeuristicScorer struct {
	targetClips int
	bounds      Bounds
	rng         *rand.Rand

	// Trailing seconds kept free when a window is pushed back from the end
	// of the video.
	safetyMargin float64
}

// NewHeuristicScorer builds a scorer producing exactly targetClips
// candidates within the given duration bounds. The rand source is injected
// so tests can seed it.
func NewHeuristicScorer(targetClips int, bounds Bounds, rng *rand.Rand) *HeuristicScorer {
	return &HeuristicScorer{
		targetClips:  targetClips,
		bounds:       bounds,
		rng:          rng,
		safetyMargin: 5,
	}
}

// Score partitions [0, videoDuration) into targetClips+2 equal slices and
// draws one candidate per window, with jitter up to one window width.
func (s *HeuristicScorer) Score(videoDuration float64, _ *types.ContentSignals) []types.Candidate {
	if videoDuration <= 0 {
		return nil
	}

	slice := videoDuration / float64(s.targetClips+2)
	cands := make([]types.Candidate, 0, s.targetClips)
	for i := 0; i < s.targetClips; i++ {
		start := slice*float64(i) + s.rng.Float64()*slice
		duration := s.bounds.Min + s.rng.Float64()*(s.bounds.Max-s.bounds.Min)
		if start+duration > videoDuration {
			start = videoDuration - duration - s.safetyMargin
			if start < 0 {
				start = 0
			}
		}

		cands = append(cands, types.Candidate{
			Start:       start,
			Duration:    duration,
			Score:       8.0 + s.rng.Float64()*1.9, // synthetic, presentation only
			Title:       fmt.Sprintf("%s %d", heuristicTitles[i%len(heuristicTitles)], i+1),
			Description: heuristicDescriptions[i%len(heuristicDescriptions)],
			Platform:    heuristicPlatforms[i%len(heuristicPlatforms)],
			Provenance:  types.ProvenanceHeuristic,
		})
	}

	SortByScore(cands)
	return cands
}

var _ Scorer = (*HeuristicScorer)(nil)
