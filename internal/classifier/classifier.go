// Package classifier merges a bigram and a trigram Markov model into a
// single architecture guess, including the disagreement heuristic and the
// label-specific veto rules (§4.3).
package classifier

import (
	"strings"

	"github.com/cpurec/cpurec/internal/markov"
	"github.com/cpurec/cpurec/internal/ngram"
)

// Unknown is returned whenever the two models disagree, the winning label
// is a reserved negative class, or a label-specific veto fires.
const Unknown = ""

// NegativePrefix marks background/negative classes (§3); they are valid
// internal top matches but are never surfaced as a public guess.
const NegativePrefix = "_"

// Thresholds holds the label-specific veto constants of §4.3 step 4. The
// spec fixes OCaml at 1.0 and IA-64 at 3.0 "as-is"; Thresholds exists so a
// caller's configuration layer (internal/config) can still override them
// explicitly without the classifier's own zero-value defaults drifting.
type Thresholds struct {
	OCaml float64
	IA64  float64
}

// DefaultThresholds returns the fixed constants of §4.3 step 4.
func DefaultThresholds() Thresholds {
	return Thresholds{OCaml: 1.0, IA64: 3.0}
}

// Options configures Build: the veto Thresholds plus which of
// markov.Model's two equivalent scoring entry points Classify routes
// through. UseGonum selects markov.Model.ScoreGonum (gonum/stat's
// KullbackLeibler) over the hand-rolled, allocation-light Score; both
// compute the same KL divergence (cross-checked in
// internal/markov/model_test.go), so this is a performance/dependency
// knob, not a behavioral one.
type Options struct {
	Thresholds Thresholds
	UseGonum   bool
}

// DefaultOptions returns the fixed veto Thresholds with UseGonum enabled,
// so that a plain Build routes Classify's KL scoring through
// gonum.org/v1/gonum/stat.KullbackLeibler by default.
func DefaultOptions() Options {
	return Options{Thresholds: DefaultThresholds(), UseGonum: true}
}

// Classifier owns one bigram and one trigram Markov model trained over the
// same corpus (§4.3): M2 is n=2, no mod4, Variant A; M3 is n=3, Variant A.
type Classifier struct {
	M2 *markov.Model
	M3 *markov.Model

	thresholds Thresholds
	useGonum   bool
}

// Result is the outcome of classifying one buffer.
type Result struct {
	Label string // Unknown ("") if no confident guess
	M2    []markov.Match
	M3    []markov.Match
}

// Snapshot is a gob-friendly view of a Classifier for the on-disk
// trained-model cache (internal/cache).
type Snapshot struct {
	M2 markov.Snapshot
	M3 markov.Snapshot
}

// Snapshot captures c for serialization.
func (c *Classifier) Snapshot() Snapshot {
	return Snapshot{M2: c.M2.Snapshot(), M3: c.M3.Snapshot()}
}

// FromSnapshot reconstructs a Classifier previously captured with
// Snapshot, with DefaultOptions() (the cache does not persist either the
// veto thresholds or the UseGonum choice).
func FromSnapshot(s Snapshot) *Classifier {
	opt := DefaultOptions()
	return &Classifier{M2: markov.FromSnapshot(s.M2), M3: markov.FromSnapshot(s.M3), thresholds: opt.Thresholds, useGonum: opt.UseGonum}
}

// Build trains a Classifier from a shared corpus of samples, using
// DefaultOptions() (fixed veto thresholds of §4.3 step 4, gonum-backed
// scoring). Labels that end up with an empty n-gram table under either n
// are skipped for that model individually (§4.5); skipped2/skipped3
// report which.
func Build(samples []markov.Sample) (c *Classifier, skipped2, skipped3 []string) {
	return build(samples, false, DefaultOptions())
}

// BuildWithThresholds is like Build but lets the caller override the
// label-specific veto constants, e.g. from internal/config, keeping
// DefaultOptions().UseGonum.
func BuildWithThresholds(samples []markov.Sample, t Thresholds) (c *Classifier, skipped2, skipped3 []string) {
	return build(samples, false, Options{Thresholds: t, UseGonum: DefaultOptions().UseGonum})
}

// BuildWithOptions is like Build but lets the caller override both the
// veto Thresholds and the scoring engine (internal/config exposes both).
func BuildWithOptions(samples []markov.Sample, opt Options) (c *Classifier, skipped2, skipped3 []string) {
	return build(samples, false, opt)
}

// BuildForDump is like Build but additionally retains each model's raw
// training counts so the result can be fed to internal/dump (§6.2).
func BuildForDump(samples []markov.Sample) (c *Classifier, skipped2, skipped3 []string) {
	return build(samples, true, DefaultOptions())
}

func build(samples []markov.Sample, keepCounts bool, opt Options) (*Classifier, []string, []string) {
	m2, s2 := markov.Build(samples, markov.Options{N: 2, Variant: ngram.VariantA, KeepCounts: keepCounts})
	m3, s3 := markov.Build(samples, markov.Options{N: 3, Variant: ngram.VariantA, KeepCounts: keepCounts})
	return &Classifier{M2: m2, M3: m3, thresholds: opt.Thresholds, useGonum: opt.UseGonum}, s2, s3
}

// score runs m.Score or m.ScoreGonum depending on c.useGonum. For a
// buffer with no n-gram support both return an empty ranking (ScoreGonum
// with a nil error); score also folds any ScoreGonum error into an empty
// ranking so Classify's never-errors contract (§7) holds regardless of
// which engine is selected.
func (c *Classifier) score(m *markov.Model, buf []byte) []markov.Match {
	if !c.useGonum {
		return m.Score(buf)
	}
	matches, err := m.ScoreGonum(buf)
	if err != nil {
		return nil
	}
	return matches
}

// Classify implements §4.3's classify(buffer) operation.
func (c *Classifier) Classify(buf []byte) Result {
	r2 := c.score(c.M2, buf)
	r3 := c.score(c.M3, buf)
	res := Result{M2: r2, M3: r3, Label: Unknown}

	if len(r2) == 0 || len(r3) == 0 {
		return res
	}
	if r2[0].Label != r3[0].Label {
		return res
	}

	label := r2[0].Label
	if strings.HasPrefix(label, NegativePrefix) {
		return res
	}

	if c.vetoed(label, r2[0].KL, buf) {
		return res
	}

	res.Label = label
	return res
}

// vetoed applies the label-specific veto rules of §4.3 step 4, using c's
// configured Thresholds (DefaultThresholds() unless overridden at Build
// time). All KL comparisons use M2's top KL, as specified.
func (c *Classifier) vetoed(label string, klM2 float64, buf []byte) bool {
	t := c.thresholds
	switch label {
	case "OCaml":
		return klM2 > t.OCaml
	case "IA-64":
		return klM2 > t.IA64
	case "PIC24":
		return !everyFourthByteZero(buf)
	default:
		return false
	}
}

// everyFourthByteZero reports whether there exists an aligned 4-byte
// offset j in {0,1,2,3} such that every complete 4-byte word in buf has a
// zero byte at offset j. A buffer with no complete 4-byte word never
// exhibits the pattern.
func everyFourthByteZero(buf []byte) bool {
	words := len(buf) / 4
	if words == 0 {
		return false
	}
	ok := [4]bool{true, true, true, true}
	for i := 0; i < words; i++ {
		w := buf[i*4 : i*4+4]
		for j := 0; j < 4; j++ {
			if ok[j] && w[j] != 0x00 {
				ok[j] = false
			}
		}
		if !ok[0] && !ok[1] && !ok[2] && !ok[3] {
			return false
		}
	}
	return ok[0] || ok[1] || ok[2] || ok[3]
}
