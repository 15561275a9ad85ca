package segments

import (
	"errors"
	"fmt"
	"math"

	"github.com/vcutpro/vcut/internal/types"
)

// ErrSegmentTooShort means the video itself cannot hold a clip of minimum
// duration. Per-candidate and recoverable: callers drop the candidate.
var ErrSegmentTooShort = errors.New("video shorter than minimum clip duration")

// Refine corrects a candidate's boundaries: clamps duration into bounds,
// fits the window inside the video, and snaps boundaries to nearby scene
// changes. The returned segment always satisfies
// bounds.Min <= duration <= bounds.Max, start >= 0 and
// start+duration <= videoDuration.
func Refine(c types.Candidate, videoDuration float64, scenes []types.SceneChange, bounds Bounds) (types.Refined, error) {
	if videoDuration < bounds.Min {
		return types.Refined{}, fmt.Errorf("%w: video %.2fs, minimum %.2fs", ErrSegmentTooShort, videoDuration, bounds.Min)
	}

	duration := clamp(c.Duration, bounds.Min, bounds.Max)
	if duration > videoDuration {
		duration = videoDuration
	}

	start := c.Start
	if start < 0 {
		start = 0
	}
	if start+duration > videoDuration {
		start = videoDuration - duration
	}

	start, end := snapToScenes(start, start+duration, scenes)

	// Snapping only moves boundaries inward, so the window can fall below
	// the minimum but never exceed the maximum. Re-enforce and re-fit.
	if end-start < bounds.Min {
		end = start + bounds.Min
		if end > videoDuration {
			end = videoDuration
			start = end - bounds.Min
		}
	}

	refined := c
	refined.Start = start
	refined.Duration = end - start
	return types.Refined{Candidate: refined}, nil
}

// snapToScenes applies the one-shot scene snap: every scene timestamp lying
// within the pre-snap window, visited in ascending order, moves whichever
// boundary is numerically closer. Later snaps of the same boundary win; the
// qualifying window is never recomputed after a move.
func snapToScenes(start, end float64, scenes []types.SceneChange) (float64, float64) {
	windowStart, windowEnd := start, end
	for _, scene := range scenes {
		t := scene.Timestamp
		if t < windowStart || t > windowEnd {
			continue
		}
		if math.Abs(t-start) < math.Abs(t-end) {
			start = t
		} else {
			end = t
		}
	}
	return start, end
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
