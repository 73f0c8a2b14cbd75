package align

import "context"

// ResolvePairs chooses compatible candidate pairs between the two mates of
// a read pair. It returns the number of pairs committed.
// Grounded on CheckPairedAlignmentDistance in the original aligner, with
// the commit rule made explicit: only pairs whose combined
// score equals the running maximum are committed, tracked directly rather
// than via an append-then-filter vector.
func ResolvePairs(mate1, mate2 []AlnCan, estiDistance int64) int {
	if len(mate1)*len(mate2) > 100 {
		Deduplicate(mate1)
		Deduplicate(mate2)
	}

	type commit struct{ i, j int }
	var commits []commit
	var maxScore int

	for i := range mate1 {
		if mate1[i].Score == 0 {
			continue
		}
		chosen := -1
		chosenScore := 0
		for j := range mate2 {
			if mate2[j].Score == 0 {
				continue
			}
			if mate2[j].PosDiff() < mate1[i].PosDiff() {
				continue
			}
			if mate2[j].PosDiff()-mate1[i].PosDiff() >= estiDistance {
				continue
			}
			if mate2[j].Score > chosenScore {
				chosen = j
				chosenScore = mate2[j].Score
			}
		}
		if chosen == -1 {
			continue
		}
		pScore := mate1[i].Score + chosenScore
		switch {
		case pScore > maxScore:
			maxScore = pScore
			commits = commits[:0]
			commits = append(commits, commit{i, chosen})
		case pScore == maxScore:
			commits = append(commits, commit{i, chosen})
		}
	}

	paired := 0
	if maxScore > 0 {
		for _, c := range commits {
			mate1[c.i].PairedIdx = c.j
			mate2[c.j].PairedIdx = c.i
			paired++
		}
	}
	return paired
}

// ResetPairedIdx sets every candidate's PairedIdx to NoneIdx, preparing a
// fresh candidate list for pairing.
func ResetPairedIdx(cans []AlnCan) {
	for i := range cans {
		cans[i].PairedIdx = NoneIdx
	}
}

// MaskUnpaired zeroes the score of every candidate on either side whose
// PairedIdx is NoneIdx, or whose combined score with its mate is below the
// best combined score seen on mate1. Grounded on
// MaskUnPairedAlnCan.
//
// MaskUnpaired is idempotent: applying it twice to the same pair of slices
// yields the same result as applying it once, since the second pass
// recomputes the same maxScore from already-masked candidates (masked
// candidates have PairedIdx == NoneIdx or Score == 0 and so do not
// contribute, and no previously-kept candidate's combined score changes).
func MaskUnpaired(mate1, mate2 []AlnCan) {
	maxScore := 0
	for i := range mate1 {
		if mate1[i].PairedIdx == NoneIdx {
			continue
		}
		if combined := mate1[i].Score + mate2[mate1[i].PairedIdx].Score; combined > maxScore {
			maxScore = combined
		}
	}
	for i := range mate1 {
		if mate1[i].PairedIdx == NoneIdx || mate1[i].Score+mate2[mate1[i].PairedIdx].Score < maxScore {
			mate1[i].Score = 0
		}
	}
	for j := range mate2 {
		if mate2[j].PairedIdx == NoneIdx || mate2[j].Score+mate1[mate2[j].PairedIdx].Score < maxScore {
			mate2[j].Score = 0
		}
	}
}

// ResolveMatePair runs the full pairing procedure for one read pair:
// resolve, rescue if nothing committed, then mask or fall back to
// independent deduplication. It returns the number of committed pairs.
func ResolveMatePair(ctx context.Context, mate1, mate2 *ReadRecord, refiner Refiner, estiDistance int64) int {
	n := ResolvePairs(mate1.Candidates, mate2.Candidates, estiDistance)
	if n == 0 {
		n = refiner.AlignmentRescue(ctx, estiDistance, mate1, mate2)
	}
	if n > 0 {
		MaskUnpaired(mate1.Candidates, mate2.Candidates)
	} else {
		Deduplicate(mate1.Candidates)
		Deduplicate(mate2.Candidates)
	}
	return n
}
