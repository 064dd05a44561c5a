// Package corpus loads the training corpus the classifier is built from:
// an ordered list of (label, bytes) samples (§4.5). Loading from disk
// (§6.1) is layered on top of that contract; the in-scope core only ever
// sees the decoded Sample slice.
package corpus

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/cpurec/cpurec/internal/markov"
)

// Sample is re-exported for callers that only need the corpus package.
type Sample = markov.Sample

// NegativePrefix marks background/negative labels (§3, §6.1).
const NegativePrefix = "_"

// corpusSuffix is the one trailing suffix stripped from a file's base name
// to recover its architecture label (§6.1).
const corpusSuffix = ".corpus"

// xzSuffix marks an xz-compressed corpus file. When both the plain and the
// .xz form of a label exist, the uncompressed file is authoritative.
const xzSuffix = ".corpus.xz"

// FromDir reads every file directly inside dir and returns one Sample per
// file, using the filename convention of §6.1: one trailing ".corpus"
// suffix stripped for the label. Labels with both a plain and an .xz file
// use the plain file. Files that decode to zero bytes are logged and
// omitted rather than failing the whole load (§7 MalformedSample); an
// unreadable directory is a CorpusUnavailable error.
func FromDir(dir string, log *logrus.Logger) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &UnavailableError{Dir: dir, Cause: err}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	plain := make(map[string]string)  // label -> path
	xzOnly := make(map[string]string) // label -> .xz path, read only if no plain file

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, xzSuffix):
			label := strings.TrimSuffix(name, xzSuffix)
			xzOnly[label] = filepath.Join(dir, name)
		case strings.HasSuffix(name, corpusSuffix):
			label := strings.TrimSuffix(name, corpusSuffix)
			plain[label] = filepath.Join(dir, name)
		}
	}

	labels := make([]string, 0, len(plain)+len(xzOnly))
	for label := range plain {
		labels = append(labels, label)
	}
	for label := range xzOnly {
		if _, ok := plain[label]; !ok {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	samples := make([]Sample, 0, len(labels))
	for _, label := range labels {
		var data []byte
		var err error
		if path, ok := plain[label]; ok {
			data, err = os.ReadFile(path)
		} else {
			data, err = readXZ(xzOnly[label])
		}
		if err != nil {
			log.WithFields(logrus.Fields{"label": label, "error": err}).Warn("corpus: could not read sample, skipping")
			continue
		}
		if len(data) == 0 {
			log.WithField("label", label).Warn("corpus: sample decoded to zero bytes, skipping")
			continue
		}
		samples = append(samples, Sample{Label: label, Data: data})
	}

	if len(samples) == 0 {
		return nil, &UnavailableError{Dir: dir, Cause: os.ErrNotExist}
	}
	return samples, nil
}

func readXZ(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 64*1024)
	chunk := make([]byte, 32*1024)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return buf, err
		}
	}
}

// UnavailableError implements the CorpusUnavailable error kind of §7.
type UnavailableError struct {
	Dir   string
	Cause error
}

func (e *UnavailableError) Error() string {
	return "corpus: unavailable at " + e.Dir + ": " + e.Cause.Error()
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// IsNegative reports whether label is a reserved background/negative class.
func IsNegative(label string) bool {
	return strings.HasPrefix(label, NegativePrefix)
}
