// Package refgenome stands in for the indexing collaborator the core
// mapping engine treats as external: FM-index construction/lookup and the
// forward+reverse coordinate system. It
// implements align.Index and align.Coordinate against a plain in-memory
// reference, sufficient to exercise and test the align/mapper/profile
// packages; a production deployment swaps these for a real FM-index.
package refgenome

import (
	"fmt"
	"index/suffixarray"

	"github.com/kartseq/kart/align"
)

// Chromosome describes one reference sequence contributing to the forward
// half of the logical [0, 2G) genome.
type Chromosome struct {
	Name string
	Seq  string // ASCII bases, forward strand only
}

// Reference holds a concatenated forward+reverse logical genome built from
// a list of chromosomes, and answers Index/Coordinate queries against it.
type Reference struct {
	chroms     []Chromosome
	chromStart []int64 // forward-strand start offset of each chromosome
	genomeSize int64

	forward []byte // encoded forward strand, length G
	sa      *suffixarray.Index

	coord *Coordinate
}

// NewReference builds a Reference from an ordered list of chromosomes.
func NewReference(chroms []Chromosome) *Reference {
	r := &Reference{chroms: chroms}
	var buf []byte
	for _, c := range chroms {
		r.chromStart = append(r.chromStart, int64(len(buf)))
		buf = append(buf, align.EncodeRead(c.Seq)...)
	}
	r.forward = buf
	r.genomeSize = int64(len(buf))
	r.sa = suffixarray.New(append([]byte(nil), buf...))
	r.coord = newCoordinate(r)
	return r
}

// Coordinate returns the align.Coordinate view of this reference.
func (r *Reference) Coordinate() *Coordinate { return r.coord }

// Index returns the align.Index view of this reference.
func (r *Reference) Index() align.Index { return (*searchIndex)(r) }

type searchIndex Reference

// BWTSearch reports the longest exact match of encoded[from:] against the
// forward strand, as offsets into the [0, G) forward buffer only; it never
// reports a location in the reverse-complement half of the [0, 2G) space a
// real FM-index search covers. It linearly shrinks the query length until
// a match is found or no length down to a single base matches, which is a
// direct (if asymptotically slower) stand-in for a real FM-index's
// backward search.
func (ix *searchIndex) BWTSearch(encoded []byte, from, rlen int) (align.MatchResult, error) {
	r := (*Reference)(ix)
	if from >= len(encoded) {
		return align.MatchResult{}, nil
	}
	maxLen := len(encoded) - from
	for l := maxLen; l >= 1; l-- {
		query := encoded[from : from+l]
		offs := r.sa.Lookup(query, -1)
		if len(offs) == 0 {
			continue
		}
		locs := make([]int64, 0, len(offs))
		for _, o := range offs {
			locs = append(locs, int64(o))
		}
		return align.MatchResult{Len: l, Locations: locs}, nil
	}
	return align.MatchResult{}, nil
}

// String implements fmt.Stringer for debugging.
func (r *Reference) String() string {
	return fmt.Sprintf("Reference{chroms=%d, genomeSize=%d}", len(r.chroms), r.genomeSize)
}
