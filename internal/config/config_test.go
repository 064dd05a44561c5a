package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpurec.yaml")
	if err := os.WriteFile(path, []byte("corpus_dir: /data/corpus\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CorpusDir != "/data/corpus" {
		t.Errorf("CorpusDir = %q, want /data/corpus", cfg.CorpusDir)
	}
	if cfg.OCamlThreshold != 1.0 {
		t.Errorf("OCamlThreshold = %v, want default 1.0", cfg.OCamlThreshold)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestClassifierOptionsReflectsConfig(t *testing.T) {
	cfg := Default()
	cfg.OCamlThreshold = 0.5
	cfg.IA64Threshold = 2.5
	cfg.UseGonumScoring = false

	opt := cfg.ClassifierOptions()
	if opt.Thresholds.OCaml != 0.5 || opt.Thresholds.IA64 != 2.5 {
		t.Errorf("ClassifierOptions().Thresholds = %+v, want {0.5 2.5}", opt.Thresholds)
	}
	if opt.UseGonum {
		t.Error("ClassifierOptions().UseGonum = true, want false")
	}
}

func TestOverrideOnlyAppliesSetFields(t *testing.T) {
	cfg := Default()
	got := cfg.Override("", "custom.cache", "")

	if got.CorpusDir != cfg.CorpusDir {
		t.Errorf("CorpusDir changed unexpectedly: %q", got.CorpusDir)
	}
	if got.CacheFile != "custom.cache" {
		t.Errorf("CacheFile = %q, want custom.cache", got.CacheFile)
	}
	if got.LogLevel != cfg.LogLevel {
		t.Errorf("LogLevel changed unexpectedly: %q", got.LogLevel)
	}
}
