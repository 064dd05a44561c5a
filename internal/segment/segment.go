// Package segment splits a buffer into fixed-size chunks, classifies each
// with a Classifier, collapses consecutive equal labels into runs, and
// applies an outlier-merging pass driven by each chunk's second-choice
// guesses (§4.4).
package segment

import "github.com/cpurec/cpurec/internal/classifier"

// Unknown mirrors classifier.Unknown: the label of a chunk/run the
// classifier could not confidently name.
const Unknown = classifier.Unknown

// Chunk is one classified window of the buffer.
type Chunk struct {
	Label string
	// Alternates is the multiset union of the top-2 labels of M2 and M3
	// for this chunk (up to 4 entries, duplicates retained).
	Alternates []string
}

// Run is a maximal sequence of consecutive chunks sharing a label.
type Run struct {
	Label string
	Count int
}

// Segmentation is the full result of §4.4's segment(buffer) operation.
type Segmentation struct {
	Runs         []Run
	BestLabel    string
	ChunkSize    int
	BestRunCount int
	// Chunks is the pre-collapse, per-chunk detail; retained so Merge can
	// consult chunk alternates at run boundaries.
	Chunks []Chunk
}

// initialChunkSize implements the adaptive chunk-size table of §4.4.
func initialChunkSize(l int) int {
	switch {
	case l >= 0x20000:
		return 0x800
	case l >= 0x8000:
		return 0x400
	case l >= 0x1000:
		return 0x200
	case l >= 0x400:
		return 0x100
	default:
		return 0x40
	}
}

// Segment runs the adaptive sliding-window loop described in §4.4: try a
// pass at the current chunk size; if it yields a best label with a run of
// length > 1, stop; otherwise halve the chunk size and retry while it
// remains >= 0x40.
//
// Preserves the source tool's exact bookkeeping quirk (design note §9a):
// the chunk-size halving happens unconditionally at the end of each loop
// iteration, before the break test, so the reported ChunkSize is computed
// as 2*sz*BestRunCount using the already-halved sz, not the sz that
// actually produced the winning pass.
func Segment(c *classifier.Classifier, buf []byte) Segmentation {
	l := len(buf)
	sz := initialChunkSize(l)

	var chunks []Chunk
	var bestLabel string
	var bestCount int
	for sz >= 0x40 {
		chunks = pass(c, buf, sz)
		runs := collapseAdjacent(toRuns(chunks))
		bestLabel, bestCount = longestRun(runs)
		sz /= 2
		if bestCount > 1 {
			break
		}
	}

	runs := collapseAdjacent(toRuns(chunks))
	return Segmentation{
		Runs:         runs,
		BestLabel:    bestLabel,
		ChunkSize:    2 * sz * bestCount,
		BestRunCount: bestCount,
		Chunks:       chunks,
	}
}

// pass classifies the buffer at a single chunk size S: K = floor(L/S)
// chunks, each an overlapping two-chunk window [S*i : S*(i+2)] except the
// last, which is clipped to the end of the buffer.
func pass(c *classifier.Classifier, buf []byte, s int) []Chunk {
	l := len(buf)
	k := l / s
	if k == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, k)
	for i := 0; i < k; i++ {
		start := s * i
		end := s * (i + 2)
		if i == k-1 || end > l {
			end = l
		}
		res := c.Classify(buf[start:end])
		chunks = append(chunks, Chunk{Label: res.Label, Alternates: alternates(res)})
	}
	return chunks
}

// alternates returns the union (as a multiset) of the top-2 labels of M2
// and M3, up to 4 entries with duplicates retained.
func alternates(res classifier.Result) []string {
	var alt []string
	for i := 0; i < 2 && i < len(res.M2); i++ {
		alt = append(alt, res.M2[i].Label)
	}
	for i := 0; i < 2 && i < len(res.M3); i++ {
		alt = append(alt, res.M3[i].Label)
	}
	return alt
}

func toRuns(chunks []Chunk) []Run {
	runs := make([]Run, 0, len(chunks))
	for _, ch := range chunks {
		runs = append(runs, Run{Label: ch.Label, Count: 1})
	}
	return runs
}

// collapseAdjacent concatenates any consecutive runs sharing a label
// unconditionally (§4.4's "runs equal to their predecessor's label are
// always concatenated regardless of heuristics").
func collapseAdjacent(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].Label == r.Label {
			out[n-1].Count += r.Count
			continue
		}
		out = append(out, r)
	}
	return out
}

// longestRun implements best_label(runs): the label of the longest run,
// ignoring Unknown runs, ties broken by first occurrence.
func longestRun(runs []Run) (label string, count int) {
	best := -1
	for _, r := range runs {
		if r.Label == Unknown {
			continue
		}
		if r.Count > best {
			best = r.Count
			label = r.Label
			count = r.Count
		}
	}
	return label, count
}

// runBounds returns, for each run, the index of its first chunk in the
// original (pre-collapse) chunk sequence.
func runBounds(runs []Run) []int {
	bounds := make([]int, len(runs))
	acc := 0
	for i, r := range runs {
		bounds[i] = acc
		acc += r.Count
	}
	return bounds
}

func countOccurrences(list []string, label string) int {
	n := 0
	for _, l := range list {
		if l == label {
			n++
		}
	}
	return n
}

func contains(list []string, label string) bool {
	return countOccurrences(list, label) > 0
}

// Merge applies the outlier-merging pass of §4.4 to seg.Runs, using
// seg.Chunks and seg.BestLabel for the heuristic's per-chunk-alternates
// lookups. It iterates to a fixed point, so Merge(Merge(seg)) == Merge(seg).
//
// For an interior run R_k with neighbors R_{k-1} and R_{k+1} and length
// c = R_k.Count, R_k is merged into its neighbors (producing one run
// labeled R_{k-1}.Label) when all of:
//  1. R_{k-1}.Label == R_{k+1}.Label and that label is not Unknown.
//  2. c <= R_{k-1}.Count + R_{k+1}.Count.
//  3. Either (a) the last chunk of R_{k-1} has the neighbors' label
//     appearing exactly twice in its Alternates, or (b) 10*c is strictly
//     less than R_{k-1}.Count+R_{k+1}.Count and seg.BestLabel does not
//     appear in that chunk's Alternates.
func Merge(seg Segmentation) Segmentation {
	runs := append([]Run(nil), seg.Runs...)
	chunks := seg.Chunks
	best := seg.BestLabel

	for {
		bounds := runBounds(runs)
		merged := false
		for k := 1; k < len(runs)-1; k++ {
			prev, cur, next := runs[k-1], runs[k], runs[k+1]
			if prev.Label != next.Label || prev.Label == Unknown {
				continue
			}
			c := cur.Count
			if c > prev.Count+next.Count {
				continue
			}

			lastChunkIdx := bounds[k] - 1
			var chunkAlt []string
			if lastChunkIdx >= 0 && lastChunkIdx < len(chunks) {
				chunkAlt = chunks[lastChunkIdx].Alternates
			}

			condA := countOccurrences(chunkAlt, prev.Label) == 2
			condB := 10*c < prev.Count+next.Count && !contains(chunkAlt, best)
			if !condA && !condB {
				continue
			}

			combined := Run{Label: prev.Label, Count: prev.Count + cur.Count + next.Count}
			next2 := make([]Run, 0, len(runs)-2)
			next2 = append(next2, runs[:k-1]...)
			next2 = append(next2, combined)
			next2 = append(next2, runs[k+2:]...)
			runs = collapseAdjacent(next2)
			merged = true
			break
		}
		if !merged {
			break
		}
	}

	out := seg
	out.Runs = runs
	return out
}
