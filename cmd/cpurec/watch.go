package main

import (
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/cpurec/cpurec/internal/cache"
	"github.com/cpurec/cpurec/internal/classifier"
)

var watchCommand = &cli.Command{
	Name:   "watch",
	Usage:  "Watch the corpus directory and retrain the cache on change",
	Flags:  flagsSlice("config", "corpus", "cache", "verbose"),
	Action: watchAction,
}

// watchAction rebuilds the trained-model cache once on startup, then
// retrains whenever the corpus directory receives a write, create, or
// remove event. Watcher errors and failed retrains are logged and the
// loop goes on; it returns when the watcher's channels close or the
// process exits.
func watchAction(c *cli.Context) error {
	cfg, err := loadConfigFromFlags(c)
	if err != nil {
		return err
	}

	retrain := func() error {
		samples, _, err := loadSamplesFromFlags(c)
		if err != nil {
			return err
		}
		clf, _, _ := classifier.BuildWithOptions(samples, cfg.ClassifierOptions())
		if err := cache.Save(cfg.CacheFile, clf); err != nil {
			return err
		}
		log.WithField("cache", cfg.CacheFile).Info("watch: retrained cache")
		return nil
	}

	if err := retrain(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.CorpusDir); err != nil {
		return err
	}
	log.WithField("dir", cfg.CorpusDir).Info("watch: monitoring corpus directory")

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) {
				log.WithField("event", ev).Debug("watch: corpus change detected")
				if err := retrain(); err != nil {
					log.WithError(err).Warn("watch: retrain failed")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch: watcher error")
		}
	}
}
