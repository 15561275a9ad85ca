package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vcutpro/vcut/internal/timecode"
	"github.com/vcutpro/vcut/internal/types"
)

func renderManifestTable(manifest types.Manifest) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Clip", "Start", "Length", "Score", "Title", "Platform"})

	for i, clip := range manifest.Clips {
		tw.AppendRow(table.Row{
			i + 1,
			clip.Filename,
			timecode.Format(clip.StartTime),
			fmt.Sprintf("%.0fs", clip.Duration),
			fmt.Sprintf("%.1f", clip.Score),
			clip.Title,
			clip.Platform,
		})
	}
	if len(manifest.Clips) == 0 {
		tw.AppendRow(table.Row{"", "no clips produced", "", "", "", "", ""})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}
