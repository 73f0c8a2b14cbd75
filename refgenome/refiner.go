package refgenome

import (
	"context"

	"github.com/kartseq/kart/align"
)

// bandMatrix is a banded edit-distance matrix, generalized from
// util/distance.go's full Levenshtein matrix/operation traversal: instead
// of filling every cell, it only fills a fixed-width band around the main
// diagonal, which is sufficient once a seed has already anchored the two
// sequences to within a few bases of each other.
type bandMatrix struct {
	data  []int
	nRows int
	nCols int
	band  int
}

func newBandMatrix(nRows, nCols, band int) *bandMatrix {
	return &bandMatrix{
		data:  make([]int, nRows*nCols),
		nRows: nRows,
		nCols: nCols,
		band:  band,
	}
}

const bandSentinel = 1 << 30

func (m *bandMatrix) get(i, j int) int {
	if j < 0 || j >= m.nCols || i < 0 || i >= m.nRows || j < i-m.band || j > i+m.band {
		return bandSentinel
	}
	return m.data[i*m.nCols+j]
}

func (m *bandMatrix) set(i, j, v int) { m.data[i*m.nCols+j] = v }

// fill computes the banded edit-distance matrix for read against ref,
// mirroring computeCell's diagonal/down/right recurrence but skipping any
// column outside [i-band, i+band].
func (m *bandMatrix) fill(read, ref []byte) {
	for i := 0; i < m.nRows; i++ {
		lo, hi := i-m.band, i+m.band
		if lo < 0 {
			lo = 0
		}
		if hi >= m.nCols {
			hi = m.nCols - 1
		}
		for j := lo; j <= hi; j++ {
			switch {
			case i == 0:
				m.set(i, j, j)
			case j == 0:
				m.set(i, j, i)
			case read[i-1] == ref[j-1]:
				m.set(i, j, m.get(i-1, j-1))
			default:
				down := m.get(i-1, j) + 1
				diag := m.get(i-1, j-1) + 1
				right := m.get(i, j-1) + 1
				min := down
				if diag < min {
					min = diag
				}
				if right < min {
					min = right
				}
				m.set(i, j, min)
			}
		}
	}
}

// editDistance returns the bottom-right cell, the band-limited edit
// distance between read and ref of equal length.
func (m *bandMatrix) editDistance() int {
	return m.get(m.nRows-1, m.nCols-1)
}

// NaiveRefiner implements align.Refiner by filling a banded edit-distance
// matrix between a candidate's clipped ends and the reference, and by
// probing a window around an anchored mate to rescue an unmapped partner.
// It is the reference implementation of the Refiner collaborator; it is
// "naive" only in that it recomputes the band from scratch per call rather
// than reusing FM-index machinery the way a production refiner would.
type NaiveRefiner struct {
	ref *Reference

	// MaxEditFraction bounds the edit distance ProduceReadAlignment will
	// accept, expressed as a fraction of the clipped length.
	MaxEditFraction float64
	// Band is the half-width used by bandMatrix.fill.
	Band int
}

// NewNaiveRefiner builds a NaiveRefiner over ref with reasonable defaults.
func NewNaiveRefiner(ref *Reference) *NaiveRefiner {
	return &NaiveRefiner{ref: ref, MaxEditFraction: 0.1, Band: 5}
}

// ProduceReadAlignment attempts to extend rec's best candidate's soft
// clips by banded alignment against the reference, accepting the
// candidate (and recording it as rec.Summary.BestAlnCanIdx) when the
// resulting edit distance is within MaxEditFraction of the clipped length.
func (n *NaiveRefiner) ProduceReadAlignment(ctx context.Context, rec *align.ReadRecord) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	best := -1
	bestScore := -1
	for i, c := range rec.Candidates {
		if c.Score > bestScore {
			bestScore = c.Score
			best = i
		}
	}
	if best < 0 || bestScore <= 0 {
		return false
	}
	cand := rec.Candidates[best]
	if cand.HeadClip == 0 && cand.TailClip == 0 {
		rec.Summary.BestAlnCanIdx = best
		rec.Summary.Score = cand.Score
		return true
	}

	encoded := align.EncodeRead(rec.Seq)
	firstGPos := cand.Seeds[0].GPos
	total := 0
	if cand.HeadClip > 0 {
		total += n.bandedEdit(encoded[:cand.HeadClip], firstGPos-int64(cand.HeadClip), true)
	}
	if cand.TailClip > 0 {
		tailStart := firstGPos - int64(cand.HeadClip) + int64(rec.RLen-cand.TailClip)
		total += n.bandedEdit(encoded[rec.RLen-cand.TailClip:], tailStart, false)
	}
	clipped := cand.HeadClip + cand.TailClip
	if clipped == 0 {
		rec.Summary.BestAlnCanIdx = best
		rec.Summary.Score = cand.Score
		return true
	}
	if float64(total) > n.MaxEditFraction*float64(clipped) {
		return false
	}
	rec.Summary.BestAlnCanIdx = best
	rec.Summary.Score = cand.Score + (clipped - total)
	return true
}

// bandedEdit fills a band between seq and the forward-strand reference
// window of matching length starting at gPos, returning the resulting edit
// distance. gPos outside [0, G) yields the worst possible distance,
// matching the "no information" stance of an out-of-range probe.
func (n *NaiveRefiner) bandedEdit(seq []byte, gPos int64, _ bool) int {
	if len(seq) == 0 {
		return 0
	}
	g := int64(len(n.ref.forward))
	lo, hi := gPos, gPos+int64(len(seq))
	if lo < 0 || hi > g {
		return len(seq)
	}
	window := n.ref.forward[lo:hi]
	m := newBandMatrix(len(seq)+1, len(window)+1, n.Band)
	m.fill(seq, window)
	return m.editDistance()
}

// AlignmentRescue probes a window of width 2*maxDistance around an
// already-anchored mate for the other mate's best unplaced candidate,
// scoring each placement by Hamming distance. It returns the number of
// mates it was able to rescue: 0 or 1, since a mate is only rescued when it
// has no live candidate and the other mate has one.
func (n *NaiveRefiner) AlignmentRescue(ctx context.Context, maxDistance int64, mate1, mate2 *align.ReadRecord) int {
	rescued := 0
	if n.rescueOne(ctx, maxDistance, mate2, mate1) {
		rescued++
	}
	if n.rescueOne(ctx, maxDistance, mate1, mate2) {
		rescued++
	}
	return rescued
}

// rescueOne tries to place anchor's mate by probing the reference window
// around anchor's best candidate; it mutates target in place on success.
func (n *NaiveRefiner) rescueOne(ctx context.Context, maxDistance int64, anchor, target *align.ReadRecord) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	if len(target.Candidates) > 0 && target.LiveCandidates() > 0 {
		return false // already placed, nothing to rescue
	}
	anchorBest := -1
	anchorScore := -1
	for i, c := range anchor.Candidates {
		if c.Score > anchorScore {
			anchorScore = c.Score
			anchorBest = i
		}
	}
	if anchorBest < 0 || anchorScore <= 0 {
		return false
	}
	anchorGPos := anchor.Candidates[anchorBest].Seeds[0].GPos

	encoded := align.EncodeRead(target.Seq)
	g := int64(len(n.ref.forward))
	lo := anchorGPos - maxDistance
	if lo < 0 {
		lo = 0
	}
	hi := anchorGPos + maxDistance + int64(target.RLen)
	if hi > g {
		hi = g
	}
	if hi-lo < int64(target.RLen) {
		return false
	}

	bestStart := int64(-1)
	bestDist := len(target.Seq) + 1
	for start := lo; start+int64(target.RLen) <= hi; start++ {
		window := n.ref.forward[start : start+int64(target.RLen)]
		d := hammingDistance(encoded, window)
		if d < bestDist {
			bestDist = d
			bestStart = start
		}
	}
	if bestStart < 0 || bestDist*4 > target.RLen {
		return false
	}
	target.Candidates = []align.AlnCan{align.NewAlnCan(
		[]align.Seed{{RPos: 0, GPos: bestStart, Len: target.RLen - bestDist, PosDiff: bestStart}},
		target.RLen,
	)}
	target.Summary.BestAlnCanIdx = 0
	target.Summary.Score = target.Candidates[0].Score

	// Commit the pair symmetrically so MaskUnpaired (run by ResolveMatePair
	// whenever a rescue succeeds) keeps both sides instead of masking a
	// rescued mate whose PairedIdx would otherwise still read NoneIdx.
	target.Candidates[0].PairedIdx = anchorBest
	anchor.Candidates[anchorBest].PairedIdx = 0
	return true
}

func hammingDistance(a, b []byte) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}
