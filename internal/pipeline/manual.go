package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vcutpro/vcut/internal/timecode"
	"github.com/vcutpro/vcut/internal/types"
)

// ErrInvalidRange means the manual cut's end does not come after its start.
var ErrInvalidRange = errors.New("end time must be after start time")

// ManualCut renders exactly the requested range, bypassing scoring and
// boundary refinement. Start and end are "MM:SS" timecodes; malformed input
// fails loudly with timecode.ErrInvalidTimecode.
func (p *Pipeline) ManualCut(ctx context.Context, videoPath, outDir, startTC, endTC, title string) (types.Manifest, error) {
	start, err := timecode.Parse(startTC)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("start: %w", err)
	}
	end, err := timecode.Parse(endTC)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("end: %w", err)
	}
	if end <= start {
		return types.Manifest{}, fmt.Errorf("%w: %s..%s", ErrInvalidRange, startTC, endTC)
	}

	if _, err := os.Stat(videoPath); err != nil {
		return types.Manifest{}, fmt.Errorf("source video unreadable: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return types.Manifest{}, err
	}

	if title == "" {
		title = "Manual Cut"
	}
	seg := types.Refined{Candidate: types.Candidate{
		Start:    start,
		Duration: end - start,
		Title:    title,
	}}

	clip, err := p.renderer.Render(ctx, videoPath, seg, outDir, "manual_clip")
	if err != nil {
		return types.Manifest{}, err
	}
	clip.Description = fmt.Sprintf("Manual cut %s - %s", timecode.Format(start), timecode.Format(end))

	p.logger.Info().
		Float64("start", start).
		Float64("duration", end-start).
		Str("file", clip.FilePath).
		Msg("manual cut complete")

	return types.Manifest{Input: videoPath, Clips: []types.ClipResult{clip}}, nil
}
