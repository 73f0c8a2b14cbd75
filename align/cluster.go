package align

// BuildClusters groups a SeedList into candidate alignment regions sharing
// a compatible reference-vs-read offset. Grounded on
// SimplePairClustering / IdentifyClosestFragmentPairs in the original
// aligner.
func BuildClusters(seeds SeedList, rlen int, coord Coordinate, opts Opts) []AlnCan {
	if len(seeds) == 0 {
		return nil
	}

	var cans []AlnCan
	headIdx := 0
	gPosEnd := coord.GetAlignmentBoundary(seeds[0].GPos)
	score := seeds[0].Len
	scoreThr := rlen / 4

	closeWindow := func(headIdx, j, score int) {
		if score <= scoreThr {
			return
		}
		if scoreThr < score/2 {
			scoreThr = score / 2
		}
		if score >= rlen {
			// Tandem-repeat overloaded cluster: keep only the longest
			// single-posDiff sub-run (the "closest fragment
			// pairs" refinement).
			cans = append(cans, closestFragmentPairs(seeds, headIdx, j, rlen))
		} else {
			window := make([]Seed, j-headIdx)
			copy(window, seeds[headIdx:j])
			cans = append(cans, NewAlnCan(window, rlen))
		}
	}

	for i, j := 0, 1; j < len(seeds); i, j = i+1, j+1 {
		if seeds[j].GPos >= gPosEnd || abs64(seeds[j].PosDiff-seeds[i].PosDiff) > int64(opts.MaxPosDiff) {
			closeWindow(headIdx, j, score)
			headIdx = j
			gPosEnd = coord.GetAlignmentBoundary(seeds[j].GPos)
			score = seeds[j].Len
		} else {
			score += seeds[j].Len
		}
	}
	return cans
}

// closestFragmentPairs replaces an overloaded window's seeds with the
// longest single-PosDiff sub-run within [begIdx, endIdx), ties broken by
// first occurrence. Grounded on IdentifyClosestFragmentPairs.
func closestFragmentPairs(seeds SeedList, begIdx, endIdx, rlen int) AlnCan {
	bestScore := 0
	bestBeg, bestEnd := begIdx, begIdx+1

	i := begIdx
	s := seeds[begIdx].Len
	for j := begIdx + 1; j < endIdx; j++ {
		if seeds[j].PosDiff != seeds[i].PosDiff {
			if s > bestScore {
				bestScore, bestBeg, bestEnd = s, i, j
			}
			i = j
			s = seeds[j].Len
		} else {
			s += seeds[j].Len
		}
	}
	if s > bestScore {
		bestScore, bestBeg, bestEnd = s, i, endIdx
	}

	window := make([]Seed, bestEnd-bestBeg)
	copy(window, seeds[bestBeg:bestEnd])
	return NewAlnCan(window, rlen)
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
