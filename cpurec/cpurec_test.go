package cpurec

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	x86 := make([]byte, 4096)
	for i := range x86 {
		x86[i] = byte(0x55 + i%7)
	}
	arm := make([]byte, 4096)
	for i := range arm {
		arm[i] = byte(0xE1 + i%5)
	}
	if err := os.WriteFile(filepath.Join(dir, "X86.corpus"), x86, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ARMel.corpus"), arm, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenTrainsAndClassifiesTrainingSample(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	h, err := Open(dir, filepath.Join(dir, "cache.bin"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	x86, err := os.ReadFile(filepath.Join(dir, "X86.corpus"))
	if err != nil {
		t.Fatal(err)
	}
	if got := h.WhichArch(x86); got != "X86" {
		t.Errorf("WhichArch(X86 sample) = %q, want X86", got)
	}
}

func TestOpenUsesCacheOnSecondCall(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)
	// Kept outside the corpus directory: writing it there would update the
	// directory's mtime and make the cache stale on the next Open.
	cachePath := filepath.Join(t.TempDir(), "cache.bin")

	if _, err := Open(dir, cachePath, nil); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("expected cache file to be written: %v", err)
	}

	h2, err := Open(dir, cachePath, nil)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if h2.c == nil {
		t.Fatal("expected a usable classifier from the cached path")
	}
}

func TestOpenUnavailableCorpusErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "cache.bin"), nil)
	if err == nil {
		t.Fatal("expected an error for a missing corpus directory")
	}
}

func TestSlidingOnRepeatedSample(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	h, err := Open(dir, filepath.Join(dir, "cache.bin"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	arm, err := os.ReadFile(filepath.Join(dir, "ARMel.corpus"))
	if err != nil {
		t.Fatal(err)
	}
	seg := h.Sliding(arm)
	if len(seg.Runs) == 0 {
		t.Fatal("expected at least one run")
	}
}

func TestReportPackagesWhichArchAndSliding(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	h, err := Open(dir, filepath.Join(dir, "cache.bin"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	x86, err := os.ReadFile(filepath.Join(dir, "X86.corpus"))
	if err != nil {
		t.Fatal(err)
	}
	r := h.Report(x86, nil)
	if r.HasTextSection {
		t.Error("expected HasTextSection false when no text buffer given")
	}
	if r.BufferLength != len(x86) {
		t.Errorf("BufferLength = %d, want %d", r.BufferLength, len(x86))
	}
}
