// Package cpurec is the public query surface for the ISA classifier: a
// Handle wraps a trained Classifier and exposes WhichArch and Sliding,
// plus a process-local convenience singleton for callers that don't want
// to manage a Handle themselves (§4.6, §5, §9 "Global lazy state").
package cpurec

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cpurec/cpurec/internal/cache"
	"github.com/cpurec/cpurec/internal/classifier"
	"github.com/cpurec/cpurec/internal/config"
	"github.com/cpurec/cpurec/internal/corpus"
	"github.com/cpurec/cpurec/internal/must"
	"github.com/cpurec/cpurec/internal/report"
	"github.com/cpurec/cpurec/internal/segment"
)

// Handle is an explicit, caller-owned classifier instance. Once built it
// is immutable and safe to share across goroutines for read-only
// scoring (§5).
type Handle struct {
	c *classifier.Classifier
}

// Unknown is the label WhichArch returns when no confident guess exists.
const Unknown = classifier.Unknown

// Open builds a Handle from a corpus directory, trying the on-disk cache
// at cachePath first and training from scratch (then writing the cache)
// on a miss. Construction is the only failure point in the query API
// (§7): once Open succeeds, scoring never errors.
func Open(corpusDir, cachePath string, log *logrus.Logger) (*Handle, error) {
	return OpenWithConfig(config.Default().Override(corpusDir, cachePath, ""), log)
}

// OpenWithConfig is like Open but also applies cfg's veto-threshold
// overrides (internal/config) to the freshly trained Classifier. A cache
// hit does not: the cache stores no thresholds, so a cached Classifier
// uses classifier.DefaultOptions().
func OpenWithConfig(cfg config.Config, log *logrus.Logger) (*Handle, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if c, ok := cache.Load(cfg.CacheFile, cfg.CorpusDir, log); ok {
		return &Handle{c: c}, nil
	}

	samples, err := corpus.FromDir(cfg.CorpusDir, log)
	if err != nil {
		return nil, fmt.Errorf("cpurec: %w", err)
	}
	c, skipped2, skipped3 := classifier.BuildWithOptions(samples, cfg.ClassifierOptions())
	for _, l := range skipped2 {
		log.WithField("label", l).Warn("cpurec: label produced no bigram table")
	}
	for _, l := range skipped3 {
		log.WithField("label", l).Warn("cpurec: label produced no trigram table")
	}

	if err := cache.Save(cfg.CacheFile, c); err != nil {
		log.WithError(err).Warn("cpurec: failed to write trained-model cache")
	}
	return &Handle{c: c}, nil
}

// WhichArch implements §4.6's which_arch(buffer): the disagreement- and
// veto-filtered label, or Unknown.
func (h *Handle) WhichArch(buf []byte) string {
	return h.c.Classify(buf).Label
}

// Sliding implements §4.6's sliding(buffer): the full segmentation,
// post-processed by the outlier-merge pass.
func (h *Handle) Sliding(buf []byte) segment.Segmentation {
	seg := segment.Segment(h.c, buf)
	return segment.Merge(seg)
}

// Report runs WhichArch and Sliding and packages the result as the §6.3
// classification report. textBuf, when non-nil, is a separately-extracted
// text section classified independently.
func (h *Handle) Report(buf []byte, textBuf []byte) report.Report {
	label := h.WhichArch(buf)
	seg := h.Sliding(buf)

	var textLabel string
	hasText := textBuf != nil
	if hasText {
		textLabel = h.WhichArch(textBuf)
	}
	return report.New(len(buf), label, textLabel, hasText, seg)
}

var (
	defaultOnce   sync.Once
	defaultHandle *Handle
	defaultErr    error
)

// Default returns the process-local singleton Handle, building it from
// the default configuration on first call (§5, §9). The construction is
// idempotent and safe to call concurrently; every caller observes the
// same Handle or the same error.
func Default() (*Handle, error) {
	defaultOnce.Do(func() {
		defaultHandle, defaultErr = OpenWithConfig(config.Default(), logrus.StandardLogger())
	})
	return defaultHandle, defaultErr
}

// WhichArch is a package-level convenience wrapper over Default().WhichArch
// (§4.6). It panics if the default corpus cannot be read, since
// construction is the sole failure point of the query API.
func WhichArch(buf []byte) string {
	return must.Must(Default()).WhichArch(buf)
}

// Sliding is a package-level convenience wrapper over Default().Sliding.
func Sliding(buf []byte) segment.Segmentation {
	return must.Must(Default()).Sliding(buf)
}
