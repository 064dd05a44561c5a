// Package config loads the YAML configuration file for cpurec, mirroring
// keycraft's file-then-flag-overrides precedence: values from the config
// file are loaded first, then anything set explicitly on the CLI wins
// (internal/keycraft.Weights.NewWeightsFromParams follows the same
// pattern for its own file format).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cpurec/cpurec/internal/classifier"
)

// Config is cpurec's on-disk configuration.
type Config struct {
	// CorpusDir is the directory FromDir walks for training samples.
	CorpusDir string `yaml:"corpus_dir"`

	// CacheFile is where the trained classifier is gob-cached.
	CacheFile string `yaml:"cache_file"`

	// OCamlThreshold and IA64Threshold are the classifier's veto
	// constants. Default (and so Load, for a file that omits them) sets
	// them to 1.0 and 3.0; a value given is passed through as-is, so an
	// explicit zero vetoes every match with a positive KL.
	OCamlThreshold float64 `yaml:"ocaml_kl_threshold"`
	IA64Threshold  float64 `yaml:"ia64_kl_threshold"`

	// LogLevel defaults to "info". It is carried in the config only; the
	// logger's level is not set from it (the CLI's --verbose flag sets
	// debug level).
	LogLevel string `yaml:"log_level"`

	// UseGonumScoring selects classifier.Options.UseGonum: true routes
	// KL scoring through gonum.org/v1/gonum/stat.KullbackLeibler, false
	// uses the hand-rolled, allocation-light path in internal/markov.
	UseGonumScoring bool `yaml:"use_gonum_scoring"`
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		CorpusDir:       "corpus",
		CacheFile:       "cpurec.cache",
		OCamlThreshold:  1.0,
		IA64Threshold:   3.0,
		LogLevel:        "info",
		UseGonumScoring: true,
	}
}

// Load reads and parses a YAML config file, seeding unset fields from
// Default first so a partial file only overrides what it mentions.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return cfg, nil
}

// Thresholds returns the classifier veto constants this Config carries,
// for passing to classifier.BuildWithThresholds.
func (c Config) Thresholds() classifier.Thresholds {
	return classifier.Thresholds{OCaml: c.OCamlThreshold, IA64: c.IA64Threshold}
}

// ClassifierOptions returns the full classifier.Options (veto thresholds
// plus scoring engine) this Config carries, for passing to
// classifier.BuildWithOptions.
func (c Config) ClassifierOptions() classifier.Options {
	return classifier.Options{Thresholds: c.Thresholds(), UseGonum: c.UseGonumScoring}
}

// Override applies non-zero-value CLI flag overrides onto cfg, the same
// override-wins precedence keycraft applies when merging a weights file
// with the --weights flag.
func (c Config) Override(corpusDir, cacheFile, logLevel string) Config {
	out := c
	if corpusDir != "" {
		out.CorpusDir = corpusDir
	}
	if cacheFile != "" {
		out.CacheFile = cacheFile
	}
	if logLevel != "" {
		out.LogLevel = logLevel
	}
	return out
}
