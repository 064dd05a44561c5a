package main

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/cpurec/cpurec/internal/config"
	"github.com/cpurec/cpurec/internal/corpus"
	"github.com/cpurec/cpurec/internal/markov"
)

// loadConfigFromFlags mirrors keycraft's loadWeightsFromFlags: a config
// file provides defaults, and explicit flags override it. It also applies
// --verbose, which is a per-command flag and so is not visible to the
// app-level Before hook.
func loadConfigFromFlags(c *cli.Context) (config.Config, error) {
	if c.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	return cfg.Override(c.String("corpus"), c.String("cache"), ""), nil
}

// loadSamplesFromFlags resolves the corpus directory from flags/config
// and reads every sample from disk.
func loadSamplesFromFlags(c *cli.Context) ([]markov.Sample, config.Config, error) {
	cfg, err := loadConfigFromFlags(c)
	if err != nil {
		return nil, config.Config{}, err
	}
	samples, err := corpus.FromDir(cfg.CorpusDir, log)
	if err != nil {
		return nil, config.Config{}, err
	}
	return samples, cfg, nil
}
