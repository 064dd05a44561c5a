package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestFromDirPrefersPlainOverXZAndSkipsEmpty(t *testing.T) {
	dir := t.TempDir()

	mustWrite(t, filepath.Join(dir, "X86.corpus"), []byte{0x55, 0x89, 0xE5})
	mustWrite(t, filepath.Join(dir, "X86.corpus.xz"), []byte("not actually used"))
	mustWrite(t, filepath.Join(dir, "Empty.corpus"), nil)
	mustWrite(t, filepath.Join(dir, "ignored.txt"), []byte("not a corpus file"))

	log := logrus.New()
	log.SetOutput(os.Stderr)

	samples, err := FromDir(dir, log)
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("len(samples) = %d, want 1 (Empty skipped, X86 counted once)", len(samples))
	}
	if samples[0].Label != "X86" {
		t.Errorf("label = %q, want X86", samples[0].Label)
	}
	if string(samples[0].Data) != "\x55\x89\xe5" {
		t.Errorf("data = %x, want plain-file bytes, not the .xz sibling", samples[0].Data)
	}
}

func TestFromDirUnavailable(t *testing.T) {
	_, err := FromDir(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if err == nil {
		t.Fatal("expected an UnavailableError for a missing directory")
	}
	var ue *UnavailableError
	if !asUnavailable(err, &ue) {
		t.Errorf("error = %v, want *UnavailableError", err)
	}
}

func TestIsNegative(t *testing.T) {
	if !IsNegative("_zero") {
		t.Error("_zero should be negative")
	}
	if IsNegative("X86") {
		t.Error("X86 should not be negative")
	}
}

func mustWrite(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func asUnavailable(err error, target **UnavailableError) bool {
	ue, ok := err.(*UnavailableError)
	if ok {
		*target = ue
	}
	return ok
}
