// Package dump renders the §6.2 diagnostic model-dump format: per
// architecture, a text listing of every present n-gram and its raw
// training count, one line per n-gram, sorted by count descending, with
// separate M2/M3 sections.
package dump

import (
	"fmt"
	"io"
	"sort"

	"github.com/cpurec/cpurec/internal/classifier"
	"github.com/cpurec/cpurec/internal/ngram"
)

// hexDigits returns how many hex digits a zero-padded n-gram index needs
// (2 hex digits per byte of width n).
func hexDigits(n int) int {
	return 2 * n
}

// WriteModel writes c's dump for every label in sorted order. c must have
// been built with classifier.BuildForDump so raw counts are available;
// for labels without retained counts only the architecture and section
// headers are written, with no n-gram lines.
func WriteModel(w io.Writer, c *classifier.Classifier) error {
	labels := make(map[string]bool)
	for _, l := range c.M2.Labels() {
		labels[l] = true
	}
	for _, l := range c.M3.Labels() {
		labels[l] = true
	}
	sorted := make([]string, 0, len(labels))
	for l := range labels {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	for _, label := range sorted {
		if _, err := fmt.Fprintf(w, "Architecture: %s\n", label); err != nil {
			return err
		}
		if err := writeModelSection(w, "M2", c.M2, label); err != nil {
			return err
		}
		if err := writeModelSection(w, "M3", c.M3, label); err != nil {
			return err
		}
	}
	return nil
}

// model is the minimal interface WriteModel's section writer needs;
// *markov.Model satisfies it.
type model interface {
	N() int
	Counts(label string) (ngram.Counts, bool)
}

// writeModelSection writes one labeled, n-specific section (e.g. "M2") of
// the dump for a single label, sorted by count descending.
func writeModelSection(w io.Writer, section string, m model, label string) error {
	counts, ok := m.Counts(label)
	if _, err := fmt.Fprintf(w, "%s:\n", section); err != nil {
		return err
	}
	if !ok {
		return nil
	}

	type entry struct {
		idx   uint32
		count float64
	}
	entries := make([]entry, 0, len(counts))
	for idx, cnt := range counts {
		entries = append(entries, entry{idx, cnt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].idx < entries[j].idx
	})

	digits := hexDigits(m.N())
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "0x%0*x: %g,\n", digits, e.idx, e.count); err != nil {
			return err
		}
	}
	return nil
}
