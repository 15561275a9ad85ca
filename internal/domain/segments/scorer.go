// Package segments holds the clip-selection logic: candidate scoring and
// boundary refinement.
package segments

import (
	"sort"

	"github.com/vcutpro/vcut/internal/types"
)

// Scorer produces ranked candidate windows for a video. Both strategies
// share this interface so callers can be explicit about which one produced a
// manifest (see types.Candidate.Provenance).
type Scorer interface {
	Score(videoDuration float64, signals *types.ContentSignals) []types.Candidate
}

// Bounds are the clip duration limits a scorer works within.
type Bounds struct {
	Min float64
	Max float64
}

// SortByScore orders candidates by score descending, ties broken by earlier
// start time.
func SortByScore(cands []types.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Start < cands[j].Start
	})
}
