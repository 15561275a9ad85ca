package cli

import (
	"strings"
	"testing"

	"github.com/vcutpro/vcut/internal/types"
)

func TestRenderManifestTable(t *testing.T) {
	manifest := types.Manifest{Clips: []types.ClipResult{
		{
			Filename:  "clip_1_the_big_reveal.mp4",
			StartTime: 95,
			Duration:  45,
			Score:     9.4,
			Title:     "The big reveal",
			Platform:  "TikTok",
		},
	}}

	out := renderManifestTable(manifest)
	for _, want := range []string{"clip_1_the_big_reveal.mp4", "01:35", "45s", "9.4", "TikTok"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderManifestTable_Empty(t *testing.T) {
	out := renderManifestTable(types.Manifest{})
	if !strings.Contains(out, "no clips produced") {
		t.Errorf("empty manifest table = %q", out)
	}
}

func TestCutCmd_RequiresTimecodes(t *testing.T) {
	cmd := newCutCmd()
	cmd.SetArgs([]string{"video.mp4"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when --start/--end are missing")
	}
}

func TestRunCmd_RejectsUnknownMode(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetArgs([]string{"video.mp4", "--mode", "psychic"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown mode") {
		t.Fatalf("error = %v, want unknown mode", err)
	}
}
