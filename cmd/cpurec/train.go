package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cpurec/cpurec/internal/cache"
	"github.com/cpurec/cpurec/internal/classifier"
	"github.com/cpurec/cpurec/internal/dump"
)

var trainCommand = &cli.Command{
	Name:   "train",
	Usage:  "(Re)build the trained-model cache from a corpus directory",
	Flags:  flagsSlice("config", "corpus", "cache", "verbose"),
	Action: trainAction,
}

func trainAction(c *cli.Context) error {
	samples, cfg, err := loadSamplesFromFlags(c)
	if err != nil {
		return err
	}

	clf, skipped2, skipped3 := classifier.BuildWithOptions(samples, cfg.ClassifierOptions())
	for _, l := range skipped2 {
		log.WithField("label", l).Warn("train: label produced no bigram table")
	}
	for _, l := range skipped3 {
		log.WithField("label", l).Warn("train: label produced no trigram table")
	}

	if err := cache.Save(cfg.CacheFile, clf); err != nil {
		return err
	}
	log.WithFields(map[string]interface{}{
		"labels": len(clf.M2.Labels()),
		"cache":  cfg.CacheFile,
	}).Info("train: wrote trained-model cache")
	return nil
}

var dumpCommand = &cli.Command{
	Name:   "dump",
	Usage:  "Write the diagnostic per-architecture n-gram listing to stdout",
	Flags:  flagsSlice("config", "corpus", "cache", "verbose"),
	Action: dumpAction,
}

func dumpAction(c *cli.Context) error {
	samples, _, err := loadSamplesFromFlags(c)
	if err != nil {
		return err
	}

	clf, _, _ := classifier.BuildForDump(samples)
	if err := dump.WriteModel(os.Stdout, clf); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return nil
}
