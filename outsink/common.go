// Package outsink formats aligned reads for external consumption, the
// counterpart of ioreads on the output side. TextWriter emits a simple
// per-record text line; BAMWriter emits real BAM records via
// github.com/grailbio/hts. Both implement mapper.OutputSink.
package outsink

import "github.com/kartseq/kart/align"

// Coordinate is the subset of align.Coordinate a sink needs to turn a
// candidate's GPos into a chromosome name, offset, and strand.
type Coordinate interface {
	GenomeSize() int64
	DetermineCoordinate(gPos int64) (chromosome string, offset int64)
}

// placement describes where, and on which strand, a read's best candidate
// landed; ok is false for an unmapped read.
type placement struct {
	chrom   string
	offset  int64
	reverse bool
	ok      bool
}

// locate resolves a ReadRecord's best candidate through coord, mirroring
// the GPos-to-(chrom,offset) projection mapper.collectProfileHits performs
// for the per-base profile.
func locate(coord Coordinate, rec *align.ReadRecord) placement {
	if rec.Summary.Score == 0 || rec.Summary.BestAlnCanIdx < 0 || rec.Summary.BestAlnCanIdx >= len(rec.Candidates) {
		return placement{}
	}
	best := rec.Candidates[rec.Summary.BestAlnCanIdx]
	if best.Score == 0 || len(best.Seeds) == 0 {
		return placement{}
	}
	gPos := best.Seeds[0].GPos
	chrom, offset := coord.DetermineCoordinate(gPos)
	return placement{chrom: chrom, offset: offset, reverse: gPos >= coord.GenomeSize(), ok: true}
}
