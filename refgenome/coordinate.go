package refgenome

import (
	"fmt"

	"github.com/biogo/store/llrb"
)

// chromKey indexes a chromosome's forward-strand start offset in the llrb
// tree backing Coordinate lookups, following the byKey/Floor pattern used
// to find a shard from a coordinate in encoding/bampair's ShardInfo.
type chromKey struct {
	start int64
	idx   int
}

// Compare implements llrb.Comparable.
func (k chromKey) Compare(c2 llrb.Comparable) int {
	k2 := c2.(chromKey)
	switch {
	case k.start < k2.start:
		return -1
	case k.start > k2.start:
		return 1
	default:
		return 0
	}
}

// Coordinate maps a position in the logical [0, 2G) genome, where
// [0, G) is the forward strand and [G, 2G) its reverse complement, back to
// a chromosome name plus a within-chromosome offset, and reports the
// chromosome boundary a cluster scan must not cross.
type Coordinate struct {
	ref  *Reference
	tree llrb.Tree
}

func newCoordinate(ref *Reference) *Coordinate {
	c := &Coordinate{ref: ref}
	for i, start := range ref.chromStart {
		c.tree.Insert(chromKey{start: start, idx: i})
	}
	return c
}

// GenomeSize returns G, the length of the forward strand.
func (c *Coordinate) GenomeSize() int64 { return c.ref.genomeSize }

// TwoGenomeSize returns 2G, the size of the logical forward+reverse space.
func (c *Coordinate) TwoGenomeSize() int64 { return 2 * c.ref.genomeSize }

// DetermineCoordinate maps gPos, which may land in either half of the
// logical genome, to a chromosome name and a 0-based forward-strand offset.
func (c *Coordinate) DetermineCoordinate(gPos int64) (string, int64) {
	fwd := gPos
	if fwd >= c.ref.genomeSize {
		fwd = c.TwoGenomeSize() - 1 - gPos
	}
	idx := c.chromIndexAt(fwd)
	if idx < 0 {
		return "", fwd
	}
	return c.ref.chroms[idx].Name, fwd - c.ref.chromStart[idx]
}

// GetAlignmentBoundary returns the global position one past the end of the
// chromosome containing gPos, in the same half of the [0, 2G) space as
// gPos, the limit BuildClusters uses to stop a window before it crosses
// into the next chromosome.
func (c *Coordinate) GetAlignmentBoundary(gPos int64) int64 {
	reverse := gPos >= c.ref.genomeSize
	fwd := gPos
	if reverse {
		fwd = c.TwoGenomeSize() - 1 - gPos
	}
	idx := c.chromIndexAt(fwd)
	if reverse {
		// The reverse half holds the chromosomes mirrored, so a
		// chromosome starting at forward offset s ends at 2G-s there.
		if idx < 0 {
			return c.TwoGenomeSize()
		}
		return c.TwoGenomeSize() - c.ref.chromStart[idx]
	}
	if idx < 0 {
		return c.ref.genomeSize
	}
	if idx+1 < len(c.ref.chromStart) {
		return c.ref.chromStart[idx+1]
	}
	return c.ref.genomeSize
}

func (c *Coordinate) chromIndexAt(fwd int64) int {
	floor := c.tree.Floor(chromKey{start: fwd})
	if floor == nil {
		return -1
	}
	k, ok := floor.(chromKey)
	if !ok {
		panic(fmt.Sprintf("refgenome: unexpected llrb entry %v", floor))
	}
	return k.idx
}
