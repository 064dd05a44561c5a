package dump

import (
	"strings"
	"testing"

	"github.com/cpurec/cpurec/internal/classifier"
	"github.com/cpurec/cpurec/internal/markov"
)

func TestWriteModelSortedDescendingByCount(t *testing.T) {
	samples := []markov.Sample{
		{Label: "X86", Data: []byte{0x55, 0x89, 0x55, 0x89, 0x55, 0x89, 0xAA, 0xBB}},
	}
	c, _, _ := classifier.BuildForDump(samples)

	var sb strings.Builder
	if err := WriteModel(&sb, c); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "Architecture: X86") {
		t.Fatalf("missing architecture header:\n%s", out)
	}
	if !strings.Contains(out, "M2:") || !strings.Contains(out, "M3:") {
		t.Fatalf("missing M2/M3 sections:\n%s", out)
	}

	idx55 := strings.Index(out, "0x5589:")
	idxAABB := strings.Index(out, "0xaabb:")
	if idx55 == -1 || idxAABB == -1 {
		t.Fatalf("expected both n-grams present:\n%s", out)
	}
	if idx55 > idxAABB {
		t.Errorf("expected the more frequent n-gram (0x5589) to sort before 0xaabb")
	}
}

func TestWriteModelSkipsLabelsWithoutRetainedCounts(t *testing.T) {
	samples := []markov.Sample{{Label: "X86", Data: []byte{0x55, 0x89, 0x55, 0x89}}}
	c, _, _ := classifier.Build(samples) // no KeepCounts

	var sb strings.Builder
	if err := WriteModel(&sb, c); err != nil {
		t.Fatalf("WriteModel: %v", err)
	}
	out := sb.String()
	if strings.Contains(out, "0x") {
		t.Errorf("expected no n-gram lines without retained counts:\n%s", out)
	}
}
