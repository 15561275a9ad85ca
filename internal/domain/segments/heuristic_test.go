package segments

import (
	"math/rand"
	"testing"

	"github.com/vcutpro/vcut/internal/types"
)

func TestHeuristicScorer_CountAndBounds(t *testing.T) {
	t.Parallel()

	bounds := Bounds{Min: 30, Max: 60}
	for _, videoDur := range []float64{45, 120, 600, 3600} {
		rng := rand.New(rand.NewSource(1))
		scorer := NewHeuristicScorer(10, bounds, rng)

		cands := scorer.Score(videoDur, nil)
		if len(cands) != 10 {
			t.Fatalf("duration %v: expected 10 candidates, got %d", videoDur, len(cands))
		}
		for _, c := range cands {
			if c.Start < 0 {
				t.Fatalf("duration %v: negative start %v", videoDur, c.Start)
			}
			if c.Duration < bounds.Min || c.Duration > bounds.Max {
				t.Fatalf("duration %v: candidate duration %v outside [%v,%v]", videoDur, c.Duration, bounds.Min, bounds.Max)
			}
			if c.Score < 8.0 || c.Score >= 9.9 {
				t.Fatalf("synthetic score %v outside [8.0,9.9)", c.Score)
			}
			if c.Provenance != types.ProvenanceHeuristic {
				t.Fatalf("unexpected provenance %q", c.Provenance)
			}
			if c.Title == "" || c.Description == "" || c.Platform == "" {
				t.Fatalf("expected presentation metadata, got %+v", c)
			}
		}
	}
}

func TestHeuristicScorer_RankedDescending(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	scorer := NewHeuristicScorer(10, Bounds{Min: 30, Max: 60}, rng)

	cands := scorer.Score(1200, nil)
	for i := 1; i < len(cands); i++ {
		if cands[i].Score > cands[i-1].Score {
			t.Fatalf("candidates not sorted by score: %v after %v", cands[i].Score, cands[i-1].Score)
		}
	}
}

func TestHeuristicScorer_ShortVideoClampsStart(t *testing.T) {
	t.Parallel()

	// A 40s video cannot place 30-60s windows freely; every start must be
	// pulled back toward zero rather than overflowing the video.
	rng := rand.New(rand.NewSource(3))
	scorer := NewHeuristicScorer(10, Bounds{Min: 30, Max: 60}, rng)

	for _, c := range scorer.Score(40, nil) {
		if c.Start < 0 {
			t.Fatalf("negative start %v", c.Start)
		}
		if c.Start > 40 {
			t.Fatalf("start %v beyond video end", c.Start)
		}
	}
}

func TestHeuristicScorer_ZeroDuration(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	scorer := NewHeuristicScorer(10, Bounds{Min: 30, Max: 60}, rng)
	if cands := scorer.Score(0, nil); cands != nil {
		t.Fatalf("expected no candidates for zero duration, got %d", len(cands))
	}
}
