package align

// GenCoordinatePair computes the CoordinatePair describing a finalized mate
// pair's relative geometry. Grounded on
// GenCoordinatePair/GetPairedAlnCanDist in the original aligner.
func GenCoordinatePair(mate1, mate2 []AlnCan) CoordinatePair {
	if cp, ok := pairedAlnCanDist(mate1, mate2); ok {
		return cp
	}

	var live1, live2 []int64
	for i := range mate1 {
		if mate1[i].Score > 0 {
			live1 = append(live1, mate1[i].firstGPos())
		}
	}
	for j := range mate2 {
		if mate2[j].Score > 0 {
			live2 = append(live2, mate2[j].firstGPos())
		}
	}

	switch {
	case len(live1) == 1 && len(live2) == 1:
		// discordant: exactly one live candidate on each side, unpaired.
		return CoordinatePair{GPos1: live1[0], GPos2: live2[0], Dist: abs64(live2[0] - live1[0])}
	case len(live1) == 0 && len(live2) >= 1:
		// one-end anchored on mate2.
		return CoordinatePair{GPos1: -1, GPos2: live2[0], Dist: live2[0]}
	case len(live1) >= 1 && len(live2) == 0:
		// one-end anchored on mate1.
		return CoordinatePair{GPos1: live1[0], GPos2: -1, Dist: live1[0]}
	default:
		return CoordinatePair{}
	}
}

// pairedAlnCanDist looks for a committed, non-zero-score paired candidate
// on mate1 and reports the (gPos1, gPos2, dist) it implies.
func pairedAlnCanDist(mate1, mate2 []AlnCan) (CoordinatePair, bool) {
	for i := range mate1 {
		c := &mate1[i]
		if c.Score > 0 && c.PairedIdx != NoneIdx && mate2[c.PairedIdx].Score > 0 {
			gPos1 := c.firstGPos()
			gPos2 := mate2[c.PairedIdx].firstGPos()
			return CoordinatePair{GPos1: gPos1, GPos2: gPos2, Dist: abs64(gPos2 - gPos1)}, true
		}
	}
	return CoordinatePair{}, false
}

// ClassifyDiscordance inspects a CoordinatePair with both mates aligned and
// reports at most two DiscordantSite entries plus their kind, or zero
// entries for a concordant pair (whose distance the caller should instead
// feed to the insert-size estimator). Grounded on the inversion/
// translocation branches of the original worker loop in ReadMapping.cpp,
// with the asymmetric push_back bug fixed: both inversion
// branches below emit identically.
func ClassifyDiscordance(cp CoordinatePair, genomeSize, twoGenomeSize int64, opts Opts) (kind DiscordantSiteKind, sites []DiscordantSite, isConcordant bool) {
	if cp.Dist == 0 || cp.GPos1 < 0 || cp.GPos2 < 0 {
		return 0, nil, false
	}

	fwd1 := cp.GPos1 < genomeSize
	fwd2 := cp.GPos2 < genomeSize

	if fwd1 != fwd2 {
		d := abs64(twoGenomeSize - cp.GPos1 - cp.GPos2)
		if d > int64(opts.MinInversionSize) && d < int64(opts.MaxInversionSize) {
			site := cp.GPos1
			if !fwd1 {
				site = cp.GPos2
			}
			return InversionSite, []DiscordantSite{{GPos: site, Dist: d}}, false
		}
		return 0, nil, false
	}

	if cp.Dist > int64(opts.MinTranslocationSize) {
		if fwd1 {
			return TranslocationSite, []DiscordantSite{
				{GPos: cp.GPos1, Dist: cp.Dist},
				{GPos: cp.GPos2, Dist: cp.Dist},
			}, false
		}
		return TranslocationSite, []DiscordantSite{
			{GPos: twoGenomeSize - cp.GPos1, Dist: cp.Dist},
			{GPos: twoGenomeSize - cp.GPos2, Dist: cp.Dist},
		}, false
	}

	return 0, nil, true
}
