package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vcutpro/vcut/internal/ports"
	"github.com/vcutpro/vcut/internal/types"
)

// DetectScenes runs ffmpeg's scene-change select filter and parses the
// showinfo timestamps from stderr.
func (a *Adapter) DetectScenes(ctx context.Context, path string, threshold float64) ([]types.SceneChange, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", path,
		"-vf", fmt.Sprintf("select='gt(scene,%g)',metadata=print", threshold),
		"-an",
		"-f", "null",
		"-",
	)
	// Scene events land on stderr; a non-zero exit with parseable output is
	// still useful, so parse before deciding to fail.
	b, err := cmd.CombinedOutput()
	scenes := parseSceneOutput(string(b))
	if err != nil && len(scenes) == 0 {
		return nil, fmt.Errorf("scene detection: %w\n%s", err, tail(string(b), 2000))
	}

	a.logger.Debug().Int("scenes", len(scenes)).Msg("scene detection complete")
	return scenes, nil
}

// parseSceneOutput extracts (timestamp, score) pairs from the metadata=print
// output. Lines look like:
//
//	[Parsed_metadata_1 @ ...] frame:12 pts:360360 pts_time:12.012
//	[Parsed_metadata_1 @ ...] lavfi.scene_score=0.41
func parseSceneOutput(output string) []types.SceneChange {
	var scenes []types.SceneChange
	var pending *types.SceneChange
	for _, line := range strings.Split(output, "\n") {
		if idx := strings.Index(line, "pts_time:"); idx >= 0 {
			fields := strings.Fields(line[idx+len("pts_time:"):])
			if len(fields) == 0 {
				continue
			}
			if ts, err := strconv.ParseFloat(fields[0], 64); err == nil {
				scenes = append(scenes, types.SceneChange{Timestamp: ts})
				pending = &scenes[len(scenes)-1]
			}
			continue
		}
		if idx := strings.Index(line, "lavfi.scene_score="); idx >= 0 && pending != nil {
			if score, err := strconv.ParseFloat(strings.TrimSpace(line[idx+len("lavfi.scene_score="):]), 64); err == nil {
				pending.Intensity = score
			}
			pending = nil
		}
	}
	return scenes
}

var _ ports.SceneDetector = (*Adapter)(nil)
