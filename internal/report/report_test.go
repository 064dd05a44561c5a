package report

import (
	"strings"
	"testing"

	"github.com/cpurec/cpurec/internal/segment"
)

func TestNewDisplaysUnknownAsLowercase(t *testing.T) {
	seg := segment.Segmentation{BestLabel: segment.Unknown, ChunkSize: 64, BestRunCount: 2}
	r := New(1024, segment.Unknown, "", false, seg)

	if r.FullBufferLabel != "unknown" {
		t.Errorf("FullBufferLabel = %q, want unknown", r.FullBufferLabel)
	}
	if r.LongestRunLabel != "unknown" {
		t.Errorf("LongestRunLabel = %q, want unknown", r.LongestRunLabel)
	}
}

func TestNewCarriesKnownLabelsThrough(t *testing.T) {
	seg := segment.Segmentation{BestLabel: "ARMhf", ChunkSize: 256, BestRunCount: 5}
	r := New(4096, "ARMhf", "ARMhf", true, seg)

	if r.FullBufferLabel != "ARMhf" {
		t.Errorf("FullBufferLabel = %q, want ARMhf", r.FullBufferLabel)
	}
	if !r.HasTextSection {
		t.Error("expected HasTextSection true")
	}
	if r.TextSectionLabel != "ARMhf" {
		t.Errorf("TextSectionLabel = %q, want ARMhf", r.TextSectionLabel)
	}
	if r.SegmentSize != 256 || r.LongestRunCount != 5 {
		t.Errorf("segmentation fields not carried through: %+v", r)
	}
}

func TestRenderIncludesCoreFields(t *testing.T) {
	seg := segment.Segmentation{BestLabel: "X86", ChunkSize: 512, BestRunCount: 3}
	r := New(2048, "X86", "", false, seg)

	var sb strings.Builder
	Render(&sb, r)
	out := sb.String()

	for _, want := range []string{"2048 bytes", "X86", "512", "3 chunks"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Text-section") {
		t.Errorf("did not expect a text-section row when HasTextSection is false:\n%s", out)
	}
}

func TestRenderIncludesTextSectionRowWhenPresent(t *testing.T) {
	seg := segment.Segmentation{BestLabel: "MIPSel", ChunkSize: 128, BestRunCount: 4}
	r := New(8192, "MIPSel", "MIPSeb", true, seg)

	var sb strings.Builder
	Render(&sb, r)
	out := sb.String()

	if !strings.Contains(out, "Text-section") {
		t.Errorf("expected a text-section row:\n%s", out)
	}
	if !strings.Contains(out, "MIPSeb") {
		t.Errorf("expected text-section label MIPSeb:\n%s", out)
	}
}

func TestRenderRunsListsEachRun(t *testing.T) {
	seg := segment.Segmentation{
		Runs: []segment.Run{
			{Label: "X86", Count: 3},
			{Label: segment.Unknown, Count: 1},
			{Label: "ARMhf", Count: 2},
		},
	}

	var sb strings.Builder
	RenderRuns(&sb, seg)
	out := sb.String()

	for _, want := range []string{"X86", "unknown", "ARMhf"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered runs missing %q:\n%s", want, out)
		}
	}
}
