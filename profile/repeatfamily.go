package profile

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// repeatFamilyKey is the highwayhash digest of a multi-hit read's
// candidate positions, in the order given, grouping ambiguously-mapped reads by exactly where
// they multi-map. Grounded on fusion/postprocess.go's
// groupCandidatesByGenePair, which keys a map by a highwayhash digest of a
// variable-length integer list instead of sorting or string-joining it.
type repeatFamilyKey = [highwayhash.Size]byte

var repeatFamilyZeroKey repeatFamilyKey

// RecordRepeatFamily folds one multi-hit read's candidate positions into
// the repeat-family histogram, incrementing the count for the exact set of
// positions it multi-mapped to. positions need not be pre-sorted; the
// caller's traversal order becomes part of the grouping key, same as
// groupCandidatesByGenePair's fusion-order-sensitive key.
func (p *Profile) RecordRepeatFamily(positions []int64) {
	if p.repeatFamilies == nil {
		p.repeatFamilies = make(map[repeatFamilyKey]int64)
	}
	buf := make([]byte, 8*len(positions))
	for i, pos := range positions {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(pos))
	}
	key := highwayhash.Sum(buf, repeatFamilyZeroKey[:])
	p.repeatFamilies[key]++
}

// RepeatFamilyCount returns the number of distinct position-sets recorded
// by RecordRepeatFamily.
func (p *Profile) RepeatFamilyCount() int {
	return len(p.repeatFamilies)
}
