// Package cache persists a trained Classifier to disk so repeated CLI
// invocations skip retraining from the corpus (§5, §9: "caching of
// trained models on disk" is an external collaborator, not core logic,
// but a complete repository still needs one).
//
// The staleness check mirrors keycraft's NewCorpusFromFile: a cache file
// is reused only if it is newer than the corpus directory it was built
// from. The payload itself uses encoding/gob rather than keycraft's JSON
// convention because a Q table is a map keyed by n-gram index
// (map[uint32]float64 under the hood), not by string, and gob serializes
// Go's native map types directly without the string-keying JSON requires.
package cache

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cpurec/cpurec/internal/classifier"
)

// Load returns a previously cached Classifier if cachePath exists and is
// newer than corpusDir's modification time. Any failure (missing cache,
// stale cache, decode error) is reported via ok=false with the caller
// expected to retrain; cache errors are never fatal.
func Load(cachePath, corpusDir string, log *logrus.Logger) (c *classifier.Classifier, ok bool) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return nil, false
	}
	corpusInfo, err := os.Stat(corpusDir)
	if err != nil {
		return nil, false
	}
	if !cacheInfo.ModTime().After(corpusInfo.ModTime()) {
		log.WithField("cache", cachePath).Debug("cache: stale relative to corpus directory")
		return nil, false
	}

	f, err := os.Open(cachePath)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var snap classifier.Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		log.WithField("error", err).Warn("cache: could not decode cached model, retraining")
		return nil, false
	}

	log.WithField("cache", cachePath).Debug("cache: hit")
	return classifier.FromSnapshot(snap), true
}

// Save writes c's trained tables to cachePath, overwriting any existing
// file. The write goes to a temporary file first and is renamed into
// place so a crash mid-write never leaves a half-written cache behind.
func Save(cachePath string, c *classifier.Classifier) error {
	tmp := cachePath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(c.Snapshot()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: close temp file: %w", err)
	}
	if err := os.Rename(tmp, cachePath); err != nil {
		return fmt.Errorf("cache: rename into place: %w", err)
	}
	return nil
}
