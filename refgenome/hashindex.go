package refgenome

import (
	"bytes"

	farm "github.com/dgryski/go-farm"

	"github.com/kartseq/kart/align"
)

// HashIndex is a fixed-length k-mer hash table over the forward strand,
// grounded on fusion/kmer_index.go's farmhash-keyed kmer -> positions map,
// generalized from a gene-lookup table to a seed-and-extend exact-match
// index. It trades the suffix-array index's (Reference.Index) O(log n)
// lookups at any length for
// O(1) lookups at one fixed seed length, extended byte-by-byte to find the
// full exact match -- the same seed-and-extend shape a production FM-index
// aligner uses, without FM-index machinery.
type HashIndex struct {
	k       int
	table   map[uint64][]int64
	forward []byte
}

// NewHashIndex builds a HashIndex of k-mers over ref's forward strand. k
// should not exceed Opts.MinSeedLength, since BWTSearch never needs to
// resolve a match shorter than the seed length the Seed Finder requests.
func NewHashIndex(ref *Reference, k int) *HashIndex {
	ix := &HashIndex{k: k, table: make(map[uint64][]int64), forward: ref.forward}
	for i := 0; i+k <= len(ref.forward); i++ {
		h := hashKmer(ref.forward[i : i+k])
		ix.table[h] = append(ix.table[h], int64(i))
	}
	return ix
}

func hashKmer(kmer []byte) uint64 {
	return farm.Hash64WithSeed(kmer, 0)
}

// BWTSearch looks up the k-mer at encoded[from:from+k] in the table (a
// remaining suffix shorter than k has no table entry and is located by a
// linear scan of the forward strand instead) and extends every colliding
// position as far as it agrees with encoded, returning the longest
// extension found and every position tied for that length.
func (ix *HashIndex) BWTSearch(encoded []byte, from, rlen int) (align.MatchResult, error) {
	if from >= len(encoded) {
		return align.MatchResult{}, nil
	}
	k := ix.k
	if rem := len(encoded) - from; rem < k {
		k = rem
	}
	if k == 0 {
		return align.MatchResult{}, nil
	}
	var candidates []int64
	if k == ix.k {
		candidates = ix.table[hashKmer(encoded[from:from+k])]
	} else {
		for i := 0; i+k <= len(ix.forward); i++ {
			if bytes.Equal(ix.forward[i:i+k], encoded[from:from+k]) {
				candidates = append(candidates, int64(i))
			}
		}
	}
	if len(candidates) == 0 {
		return align.MatchResult{}, nil
	}

	bestLen := 0
	var bestLocs []int64
	for _, pos := range candidates {
		l := ix.extend(encoded, from, pos)
		switch {
		case l > bestLen:
			bestLen = l
			bestLocs = []int64{pos}
		case l == bestLen && l > 0:
			bestLocs = append(bestLocs, pos)
		}
	}
	if bestLen == 0 {
		return align.MatchResult{}, nil
	}
	return align.MatchResult{Len: bestLen, Locations: bestLocs}, nil
}

// extend reports how many bases starting at (encoded,from) and
// (ix.forward,pos) agree, which may exceed ix.k when the read continues to
// match the reference past the seed.
func (ix *HashIndex) extend(encoded []byte, from int, pos int64) int {
	n := 0
	for from+n < len(encoded) && pos+int64(n) < int64(len(ix.forward)) {
		if encoded[from+n] != ix.forward[pos+n] {
			break
		}
		n++
	}
	return n
}
