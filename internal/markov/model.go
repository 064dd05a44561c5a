// Package markov implements the per-architecture byte n-gram frequency
// models used to score an arbitrary buffer against a training corpus via
// Kullback-Leibler divergence.
package markov

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cpurec/cpurec/internal/ngram"
)

// Sample is one (label, bytes) training pair. Multiple samples may share a
// label; their n-gram counts are summed into one distribution.
type Sample struct {
	Label string
	Data  []byte
}

// Match is one ranked scoring result.
type Match struct {
	Label string
	KL    float64
}

// Model holds, for a fixed n-gram width and smoothing Variant, one
// frequency distribution Q per label plus that label's floor frequency for
// unseen n-grams. Immutable once built.
type Model struct {
	n       int
	variant ngram.Variant
	width   uint64
	q       map[string]ngram.Counts // label -> n-gram index -> Q(i)
	floor   map[string]float64      // label -> f0(label)
	counts  map[string]ngram.Counts // label -> raw training counts, diagnostic-only
}

// Options configures Build. Mod4 requests the aligned-word bigram counting
// variant (§4.1) instead of the sliding-by-1 counter (only meaningful when
// N==2). KeepCounts retains the raw pre-normalization count table per
// label so it can later be fed to internal/dump (§6.2); scoring never
// needs it (§3 Lifecycle).
type Options struct {
	N          int
	Variant    ngram.Variant
	Mod4       bool
	KeepCounts bool
}

// Build trains a Model from samples. Labels whose merged n-gram count table
// ends up empty (every sample was empty or shorter than n) are skipped and
// reported via the returned skipped slice instead of failing (§4.5, §7
// MalformedSample).
func Build(samples []Sample, opt Options) (*Model, []string) {
	n := opt.N
	width := ngram.Width(n)

	raw := make(map[string]ngram.Counts)
	for _, s := range samples {
		var c ngram.Counts
		if opt.Mod4 && n == 2 {
			c = ngram.CountMod4(s.Data, opt.Variant)
		} else {
			c = ngram.Count(s.Data, n, opt.Variant)
		}
		dst, ok := raw[s.Label]
		if !ok {
			dst = make(ngram.Counts, len(c))
			raw[s.Label] = dst
		}
		for idx, v := range c {
			dst[idx] += v
		}
	}

	base := opt.Variant.BaseCount()
	q := make(map[string]ngram.Counts, len(raw))
	floor := make(map[string]float64, len(raw))
	var skipped []string
	for label, counts := range raw {
		if len(counts) == 0 {
			skipped = append(skipped, label)
			continue
		}
		var sum float64
		for _, v := range counts {
			sum += v
		}
		qtotal := sum + base*float64(width-uint64(len(counts)))

		dist := make(ngram.Counts, len(counts))
		for idx, v := range counts {
			dist[idx] = v / qtotal
		}
		q[label] = dist

		if opt.Variant == ngram.VariantB {
			floor[label] = 1.0 / (256.0 * float64(width))
		} else {
			floor[label] = 0.01 / qtotal
		}
	}
	sort.Strings(skipped)

	m := &Model{n: n, variant: opt.Variant, width: width, q: q, floor: floor}
	if opt.KeepCounts {
		m.counts = raw
	}
	return m, skipped
}

// Snapshot is a gob-friendly, exported view of a Model, used by the
// on-disk trained-model cache (internal/cache).
type Snapshot struct {
	N       int
	Variant ngram.Variant
	Q       map[string]ngram.Counts
	Floor   map[string]float64
}

// Snapshot captures m for serialization.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{N: m.n, Variant: m.variant, Q: m.q, Floor: m.floor}
}

// FromSnapshot reconstructs a Model previously captured with Snapshot.
func FromSnapshot(s Snapshot) *Model {
	return &Model{n: s.N, variant: s.Variant, width: ngram.Width(s.N), q: s.Q, floor: s.Floor}
}

// Labels returns the labels this model was trained on.
func (m *Model) Labels() []string {
	labels := make([]string, 0, len(m.q))
	for l := range m.q {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// QLabel exposes the frequency table for a label, for diagnostic dumping.
func (m *Model) QLabel(label string) (ngram.Counts, bool) {
	c, ok := m.q[label]
	return c, ok
}

// Counts exposes the raw, pre-normalization training counts for label, if
// the Model was built with Options.KeepCounts. Used only by diagnostic
// dumping (§6.2), never by scoring.
func (m *Model) Counts(label string) (ngram.Counts, bool) {
	c, ok := m.counts[label]
	return c, ok
}

// Floor returns f0(label) and whether label is known to the model.
func (m *Model) Floor(label string) (float64, bool) {
	f, ok := m.floor[label]
	return f, ok
}

// N returns the n-gram width this model was trained with.
func (m *Model) N() int { return m.n }

// Score computes, for every label, the KL divergence D(P||Q_label) of buf's
// unsmoothed empirical n-gram distribution P against the label's reference
// distribution, and returns labels ranked ascending by KL (best match
// first). Buffers shorter than n produce an empty ranking.
func (m *Model) Score(buf []byte) []Match {
	if len(buf) < m.n {
		return nil
	}
	raw := ngram.Count(buf, m.n, ngram.VariantB) // pseudo-count 0: unsmoothed P
	var total float64
	for _, v := range raw {
		total += v
	}
	if total == 0 {
		return nil
	}

	matches := make([]Match, 0, len(m.q))
	for label, dist := range m.q {
		f0 := m.floor[label]
		var kl float64
		for idx, cnt := range raw {
			p := cnt / total
			if p <= 0 {
				continue
			}
			q, ok := dist[idx]
			if !ok {
				q = f0
			}
			kl += p * math.Log(p/q)
		}
		matches = append(matches, Match{Label: label, KL: kl})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].KL < matches[j].KL
	})
	return matches
}

// ScoreGonum is equivalent to Score but delegates the actual divergence sum
// to gonum/stat.KullbackLeibler for the indices where the buffer has
// observed mass. This is the path classifier.Classify uses by default
// (classifier.DefaultOptions().UseGonum); Score remains available,
// selected via classifier.Options.UseGonum=false, for callers that would
// rather skip the per-label aligned p/q slice allocation this needs.
func (m *Model) ScoreGonum(buf []byte) ([]Match, error) {
	if len(buf) < m.n {
		return nil, nil
	}
	raw := ngram.Count(buf, m.n, ngram.VariantB)
	var total float64
	for _, v := range raw {
		total += v
	}
	if total == 0 {
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("markov: empty n-gram set for buffer of length %d", len(buf))
	}

	idxs := make([]uint32, 0, len(raw))
	for idx := range raw {
		idxs = append(idxs, idx)
	}

	matches := make([]Match, 0, len(m.q))
	for label, dist := range m.q {
		f0 := m.floor[label]
		p := make([]float64, len(idxs))
		q := make([]float64, len(idxs))
		for i, idx := range idxs {
			p[i] = raw[idx] / total
			if qv, ok := dist[idx]; ok {
				q[i] = qv
			} else {
				q[i] = f0
			}
		}
		matches = append(matches, Match{Label: label, KL: stat.KullbackLeibler(p, q)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].KL < matches[j].KL
	})
	return matches, nil
}
