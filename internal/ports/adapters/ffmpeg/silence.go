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

// Sub-second silences are conversational pauses, not cut points; the
// contract only reports silences longer than this.
const minSilenceSeconds = 1.0

// DetectSilence runs ffmpeg's silencedetect filter and parses the interval
// report from stderr.
func (a *Adapter) DetectSilence(ctx context.Context, path string) ([]types.SilenceInterval, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", path,
		"-af", fmt.Sprintf("silencedetect=noise=-30dB:d=%g", minSilenceSeconds),
		"-vn",
		"-f", "null",
		"-",
	)
	b, err := cmd.CombinedOutput()
	silences := parseSilenceOutput(string(b))
	if err != nil && len(silences) == 0 {
		return nil, fmt.Errorf("silence detection: %w\n%s", err, tail(string(b), 2000))
	}

	a.logger.Debug().Int("silences", len(silences)).Msg("silence detection complete")
	return silences, nil
}

// parseSilenceOutput pairs silence_start/silence_end lines:
//
//	[silencedetect @ ...] silence_start: 12.52
//	[silencedetect @ ...] silence_end: 14.01 | silence_duration: 1.49
func parseSilenceOutput(output string) []types.SilenceInterval {
	var silences []types.SilenceInterval
	start, haveStart := 0.0, false
	for _, line := range strings.Split(output, "\n") {
		if idx := strings.Index(line, "silence_start:"); idx >= 0 {
			if v, err := strconv.ParseFloat(firstField(line[idx+len("silence_start:"):]), 64); err == nil {
				start, haveStart = v, true
			}
			continue
		}
		if idx := strings.Index(line, "silence_end:"); idx >= 0 && haveStart {
			if end, err := strconv.ParseFloat(firstField(line[idx+len("silence_end:"):]), 64); err == nil {
				if end-start > minSilenceSeconds {
					silences = append(silences, types.SilenceInterval{Start: start, End: end})
				}
			}
			haveStart = false
		}
	}
	return silences
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var _ ports.SilenceDetector = (*Adapter)(nil)
