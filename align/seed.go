package align

import (
	"context"
	"sort"

	"github.com/grailbio/base/log"
)

// FindSeeds enumerates maximal exact matches of an encoded read against the
// reference. It walks a cursor across the read, skipping
// positions the encoder marked ambiguous, and queries idx for the longest
// exact match at each remaining position. Grounded on IdentifySimplePairs
// in the original aligner.
func FindSeeds(ctx context.Context, idx Index, encoded []byte, opts Opts, twoGenomeSize int64) (SeedList, error) {
	rlen := len(encoded)
	stopPos := rlen - opts.MinSeedLength
	var seeds SeedList

	pos := 0
	for pos < stopPos {
		if encoded[pos] >= BaseOther {
			pos++
			continue
		}
		res, err := idx.BWTSearch(encoded, pos, rlen)
		if err != nil {
			// Index failure is not expected; treat it as a
			// diagnostic and stop seeding this read rather than abort the run.
			log.Error.Printf("align: index search failed at pos %d: %v", pos, err)
			break
		}
		if len(res.Locations) > 0 {
			for _, gPos := range res.Locations {
				posDiff := gPos - int64(pos)
				if posDiff <= 0 {
					continue
				}
				seeds = append(seeds, Seed{
					RPos:    pos,
					GPos:    gPos,
					Len:     res.Len,
					PosDiff: posDiff,
					Simple:  true,
				})
			}
		}
		step := res.Len
		if step == 0 {
			step = 1
		}
		pos += step + 1
	}

	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].PosDiff != seeds[j].PosDiff {
			return seeds[i].PosDiff < seeds[j].PosDiff
		}
		return seeds[i].RPos < seeds[j].RPos
	})
	seeds = append(seeds, sentinelSeed(twoGenomeSize))
	return seeds, nil
}
