package align

import "context"

// MatchResult is what Index.BWTSearch reports for the longest exact match
// starting at a given read offset: its length and every occurrence in the
// [0, TwoGenomeSize) coordinate space.
type MatchResult struct {
	Len        int
	Locations  []int64
}

// Index is the external index collaborator: it exposes exact-
// match lookup over the encoded, concatenated forward+reverse reference.
// The core owns no part of the index memory; production deployments inject
// a real FM-index. See package refgenome for a reference implementation
// used by tests.
type Index interface {
	// BWTSearch reports the longest exact match of encoded[from:] starting
	// at position from, up to rlen-from bases, and every occurrence of
	// that match in the reference. An empty MatchResult (Len == 0) is not
	// an error -- it means no match was found.
	BWTSearch(encoded []byte, from, rlen int) (MatchResult, error)
}

// Coordinate is the external coordinate collaborator: a pure
// mapping between the linear [0, 2G) space and (chromosome, offset), plus
// per-chromosome alignment boundaries used by the Seed Cluster Builder.
type Coordinate interface {
	// GenomeSize returns G, the length of a single reference strand.
	GenomeSize() int64
	// TwoGenomeSize returns 2G.
	TwoGenomeSize() int64
	// DetermineCoordinate converts a global position into a
	// (chromosome, offset) pair.
	DetermineCoordinate(gPos int64) (chromosome string, offset int64)
	// GetAlignmentBoundary returns the exclusive upper bound, in the
	// global coordinate space, of the chromosome containing gPos. The
	// Seed Cluster Builder uses this to stop a cluster window from
	// spanning a chromosome boundary.
	GetAlignmentBoundary(gPos int64) int64
}

// Refiner is the external alignment-refinement collaborator:
// base-level gapped extension between a read's exact seeds, and paired-end
// rescue when no compatible pair was found among existing candidates.
type Refiner interface {
	// ProduceReadAlignment fills gaps between a read's surviving
	// candidates' seeds and updates rec.Summary. It reports whether at
	// least one candidate yielded a valid alignment record.
	ProduceReadAlignment(ctx context.Context, rec *ReadRecord) bool

	// AlignmentRescue may synthesize a candidate on one mate anchored to
	// the other mate's best candidate, when the Paired-End Resolver
	// committed no pair on its own. It returns the number of pairs
	// committed as a result (0 or 1).
	AlignmentRescue(ctx context.Context, maxDistance int64, mate1, mate2 *ReadRecord) int
}
