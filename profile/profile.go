// Package profile accumulates the per-base variant-signal profile and the
// two process-wide discordant-site sequences:
// coverage depth per forward-strand position, a running multi-hit-read
// count, and the sorted Inversion/Translocation site sequences. It plays
// the role MappingRecordArr and the INV/TNL site vectors play in
// ReadMapping.cpp, generalized to forward-strand indexing and Go-native
// merge semantics.
package profile

import (
	"github.com/kartseq/kart/align"
)

// Profile is the mutable per-genome accumulator. It is not safe for
// concurrent use; callers serialize access the way mapper.Aggregate does,
// under a single profile-domain lock.
type Profile struct {
	// touchCount[gPos] is incremented once per base a uniquely-mapped
	// candidate spans, mirroring MappingRecordArr[gPos].readCount: the same
	// counter doubles as coverage depth (CoverageSweep) and per-position
	// duplication signal (DuplicationReport).
	touchCount []uint32

	multiHitReads uint64

	alignedBase int64
	coverageSum int64

	repeatFamilies map[repeatFamilyKey]int64

	InversionSites     []align.DiscordantSite
	TranslocationSites []align.DiscordantSite
}

// New allocates a Profile covering forward-strand positions [0, genomeSize).
func New(genomeSize int64) *Profile {
	return &Profile{touchCount: make([]uint32, genomeSize)}
}

// GenomeSize returns the number of forward-strand positions tracked.
func (p *Profile) GenomeSize() int64 { return int64(len(p.touchCount)) }

// UpdateProfile records a uniquely-mapped candidate's span (its read's full
// length, from the first seed's forward-projected start) into the per-base
// touch counts. gPos must already be projected to the forward strand by
// the caller (mapper uses coord.DetermineCoordinate for this).
func (p *Profile) UpdateProfile(gPos int64, rlen int) {
	end := gPos + int64(rlen)
	if end > int64(len(p.touchCount)) {
		end = int64(len(p.touchCount))
	}
	for g := gPos; g >= 0 && g < end; g++ {
		p.touchCount[g]++
	}
}

// UpdateMultiHitCount records one ambiguously-mapped read (more than one
// live candidate survived deduplication).
func (p *Profile) UpdateMultiHitCount() {
	p.multiHitReads++
}

// MultiHitReads returns the running count of ambiguously-mapped reads.
func (p *Profile) MultiHitReads() uint64 { return p.multiHitReads }

// CoverageSweep computes, for positions t, t+stride, t+2*stride, ... the
// count of positions with any coverage and the summed depth over that
// strided slice, matching CheckMappingCoverage's per-thread partial sums.
// Callers reduce the partials under ProfileLock via MergeCoverage.
func (p *Profile) CoverageSweep(tid, stride int) (alignedBase, coverageSum int64) {
	for g := int64(tid); g < int64(len(p.touchCount)); g += int64(stride) {
		if cov := p.touchCount[g]; cov > 0 {
			alignedBase++
			coverageSum += int64(cov)
		}
	}
	return alignedBase, coverageSum
}

// MergeCoverage folds one worker's CoverageSweep partials into the running
// totals; callers serialize calls to this under ProfileLock.
func (p *Profile) MergeCoverage(alignedBase, coverageSum int64) {
	p.alignedBase += alignedBase
	p.coverageSum += coverageSum
}

// AlignedBase returns the total count of positions with any coverage,
// accumulated across all MergeCoverage calls.
func (p *Profile) AlignedBase() int64 { return p.alignedBase }

// CoverageSum returns the total summed depth, accumulated across all
// MergeCoverage calls.
func (p *Profile) CoverageSum() int64 { return p.coverageSum }

// AverageCoverage returns CoverageSum/AlignedBase, or 0 if nothing aligned.
func (p *Profile) AverageCoverage() float64 {
	if p.alignedBase == 0 {
		return 0
	}
	return float64(p.coverageSum) / float64(p.alignedBase)
}

// DuplicationReport scans the whole profile once, returning (duplicates,
// positionsWithHit): positionsWithHit is the count of
// positions touched by at least one read, duplicates is the excess hits
// beyond one-per-position.
func (p *Profile) DuplicationReport() (duplicates, positionsWithHit int64) {
	var totalHits int64
	for _, c := range p.touchCount {
		if c > 0 {
			positionsWithHit++
			totalHits += int64(c)
		}
	}
	return totalHits - positionsWithHit, positionsWithHit
}

// MergeDiscordantSites appends a pre-sorted batch of sites of the given
// kind into the matching process-wide sequence and restores sortedness by
// GPos with an in-place two-way merge, mirroring the original aligner's
// std::inplace_merge call over the tail it just appended.
func (p *Profile) MergeDiscordantSites(kind align.DiscordantSiteKind, batch []align.DiscordantSite) {
	if len(batch) == 0 {
		return
	}
	switch kind {
	case align.InversionSite:
		p.InversionSites = mergeSortedTail(p.InversionSites, batch)
	case align.TranslocationSite:
		p.TranslocationSites = mergeSortedTail(p.TranslocationSites, batch)
	}
}

// mergeSortedTail appends batch (already sorted by GPos) to base (already
// sorted by GPos) and merges the two sorted runs in place.
func mergeSortedTail(base, batch []align.DiscordantSite) []align.DiscordantSite {
	n := len(base)
	merged := append(base, batch...)
	// Two-way merge of merged[:n] and merged[n:], both individually sorted,
	// written back into merged; only the first run is copied aside, the way
	// std::inplace_merge uses a buffer when one is available.
	left := append([]align.DiscordantSite(nil), merged[:n]...)
	i, j, k := 0, n, 0
	for i < n && j < len(merged) {
		if left[i].GPos <= merged[j].GPos {
			merged[k] = left[i]
			i++
		} else {
			merged[k] = merged[j]
			j++
		}
		k++
	}
	copy(merged[k:], left[i:])
	return merged
}
