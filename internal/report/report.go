// Package report renders the §6.3 classification report: buffer length,
// full-buffer label, text-section label (when supplied), and a
// segmentation summary, using go-pretty the way keycraft's ranking table
// does.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cpurec/cpurec/internal/segment"
)

// Report is the §6.3 classification report for one buffer.
type Report struct {
	BufferLength int

	FullBufferLabel string

	// HasTextSection reports whether a (possibly shorter) extracted
	// text-section buffer was also classified. Extraction itself is a
	// caller responsibility (§1 out of scope).
	HasTextSection   bool
	TextSectionLabel string

	SegmentSize     int
	LongestRunCount int
	LongestRunLabel string
}

// New builds a Report from a whole-buffer classification label, an
// optional text-section label, and a Segmentation.
func New(bufLen int, fullLabel string, textLabel string, hasTextSection bool, seg segment.Segmentation) Report {
	return Report{
		BufferLength:     bufLen,
		FullBufferLabel:  display(fullLabel),
		HasTextSection:   hasTextSection,
		TextSectionLabel: display(textLabel),
		SegmentSize:      seg.ChunkSize,
		LongestRunCount:  seg.BestRunCount,
		LongestRunLabel:  display(seg.BestLabel),
	}
}

func display(label string) string {
	if label == segment.Unknown {
		return "unknown"
	}
	return label
}

// Render writes r as a rounded go-pretty table to w.
func Render(w io.Writer, r Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Title.Align = text.AlignCenter
	tw.SetTitle("Classification Report")

	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRow(table.Row{"Buffer length", fmt.Sprintf("%d bytes", r.BufferLength)})
	tw.AppendRow(table.Row{"Whole-file architecture", r.FullBufferLabel})
	if r.HasTextSection {
		tw.AppendRow(table.Row{"Text-section architecture", r.TextSectionLabel})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Segment size", r.SegmentSize})
	tw.AppendRow(table.Row{"Longest run", fmt.Sprintf("%d chunks", r.LongestRunCount)})
	tw.AppendRow(table.Row{"Longest-run architecture", r.LongestRunLabel})

	tw.Render()
}

// RenderRuns prints seg's collapsed runs as a table, used by `cmd/cpurec
// segment` for full segmentation output beyond the summary Report.
func RenderRuns(w io.Writer, seg segment.Segmentation) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Chunks", Align: text.AlignRight},
	})
	tw.AppendHeader(table.Row{"#", "Label", "Chunks"})
	for i, r := range seg.Runs {
		tw.AppendRow(table.Row{i + 1, display(r.Label), r.Count})
	}
	tw.Render()
}
