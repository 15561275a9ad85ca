package render

import (
	"fmt"
	"strings"
)

const captionMaxChars = 50

// FilterGraph builds the vertical-format video filter: scale to cover the
// target frame, center-crop, and optionally burn a caption near the bottom
// margin with a drop shadow for legibility over arbitrary backgrounds.
func FilterGraph(width, height int, caption string) string {
	parts := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", width, height),
		fmt.Sprintf("crop=%d:%d", width, height),
	}
	if caption = truncateCaption(caption); caption != "" {
		parts = append(parts, fmt.Sprintf(
			"drawtext=text='%s':fontsize=40:fontcolor=white:shadowcolor=black@0.8:shadowx=2:shadowy=2:x=(w-text_w)/2:y=h-120",
			escapeDrawtext(caption),
		))
	}
	return strings.Join(parts, ",")
}

func truncateCaption(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > captionMaxChars {
		return string(runes[:captionMaxChars])
	}
	return s
}

// escapeDrawtext escapes the characters drawtext treats specially inside a
// single-quoted text value.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}

// CodecArgs is the fixed encode parameter set: H.264 high profile with a
// constant frame rate and fixed GOP so players can seek predictably, AAC
// stereo audio, and a streaming-friendly container layout.
func CodecArgs(fps int) []string {
	gop := fps * 2 // keyframe every 2 seconds
	return []string{
		"-c:v", "libx264",
		"-profile:v", "high",
		"-level", "4.0",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", fps),
		"-vsync", "cfr",
		"-g", fmt.Sprintf("%d", gop),
		"-keyint_min", fmt.Sprintf("%d", gop),
		"-sc_threshold", "0",
		"-crf", "21",
		"-preset", "medium",
		"-tune", "film",
		"-c:a", "aac",
		"-b:a", "128k",
		"-ar", "44100",
		"-ac", "2",
		"-movflags", "+faststart",
		"-fflags", "+genpts",
	}
}
