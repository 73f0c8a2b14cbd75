package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGenomeSize = 1000000
const testTwoGenomeSize = 2 * testGenomeSize

// Concordant pair: same strand, within the expected distance window.
func TestClassifyDiscordanceConcordant(t *testing.T) {
	cp := CoordinatePair{GPos1: 500000, GPos2: 500380, Dist: 380}
	kind, sites, concordant := ClassifyDiscordance(cp, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.True(t, concordant)
	assert.Empty(t, sites)
	_ = kind
}

// Inversion below threshold emits nothing;
// raising the distance crosses MinInversionSize and emits one site.
func TestClassifyDiscordanceInversion(t *testing.T) {
	cp := CoordinatePair{GPos1: 500000, GPos2: testTwoGenomeSize - 500500, Dist: 999500}
	_, sites, concordant := ClassifyDiscordance(cp, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.False(t, concordant)
	assert.Empty(t, sites)

	cp2 := CoordinatePair{GPos1: 500000, GPos2: 1498000}
	cp2.Dist = abs64(cp2.GPos2 - cp2.GPos1)
	kind, sites2, concordant2 := ClassifyDiscordance(cp2, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.False(t, concordant2)
	require.Len(t, sites2, 1)
	assert.Equal(t, InversionSite, kind)
	assert.Equal(t, int64(500000), sites2[0].GPos)
	assert.Equal(t, int64(2000), sites2[0].Dist)
}

// Translocation: same strand, mates far more than MinTranslocationSize apart.
func TestClassifyDiscordanceTranslocation(t *testing.T) {
	cp := CoordinatePair{GPos1: 100000, GPos2: 900000, Dist: 800000}
	kind, sites, concordant := ClassifyDiscordance(cp, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.False(t, concordant)
	assert.Equal(t, TranslocationSite, kind)
	require.Len(t, sites, 2)
	assert.Equal(t, int64(100000), sites[0].GPos)
	assert.Equal(t, int64(900000), sites[1].GPos)
}

func TestClassifyDiscordanceTranslocationReverseStrandProjectsForward(t *testing.T) {
	gPos1 := testGenomeSize + 100000
	gPos2 := testGenomeSize + 900000
	cp := CoordinatePair{GPos1: gPos1, GPos2: gPos2, Dist: 800000}
	kind, sites, _ := ClassifyDiscordance(cp, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.Equal(t, TranslocationSite, kind)
	require.Len(t, sites, 2)
	assert.Equal(t, testTwoGenomeSize-gPos1, sites[0].GPos)
	assert.Equal(t, testTwoGenomeSize-gPos2, sites[1].GPos)
}

// Boundary behavior: gPos1=G-1, gPos2=G triggers the inversion branch;
// gPos1=G-1, gPos2=G-2 does not.
func TestClassifyDiscordanceStrandBoundary(t *testing.T) {
	cpInv := CoordinatePair{GPos1: testGenomeSize - 1, GPos2: testGenomeSize, Dist: 1}
	kind, _, _ := classifyStrandKind(cpInv)
	assert.Equal(t, "inversion-shaped", kind)
	// In the inversion branch d = 1 is below MinInversionSize, so nothing is
	// emitted, but an opposite-strand pair is never reported as concordant.
	_, _, concordantInv := ClassifyDiscordance(cpInv, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.False(t, concordantInv)

	cpSame := CoordinatePair{GPos1: testGenomeSize - 1, GPos2: testGenomeSize - 2, Dist: 1}
	kind2, _, _ := classifyStrandKind(cpSame)
	assert.Equal(t, "same-strand", kind2)
	_, _, concordantSame := ClassifyDiscordance(cpSame, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	assert.True(t, concordantSame)
}

// classifyStrandKind mirrors the strand test inside ClassifyDiscordance, for
// tests that only care about the strand-boundary decision.
func classifyStrandKind(cp CoordinatePair) (string, bool, bool) {
	fwd1 := cp.GPos1 < testGenomeSize
	fwd2 := cp.GPos2 < testGenomeSize
	if fwd1 != fwd2 {
		return "inversion-shaped", fwd1, fwd2
	}
	return "same-strand", fwd1, fwd2
}

func TestGenCoordinatePairOneEndAnchored(t *testing.T) {
	// One-end anchored: only mate2 has a live candidate.
	mate1 := []AlnCan{} // zero candidates
	mate2 := []AlnCan{cand(750000, 10)}
	cp := GenCoordinatePair(mate1, mate2)
	assert.Equal(t, int64(-1), cp.GPos1)
	assert.Equal(t, int64(750000), cp.GPos2)
	assert.Equal(t, int64(750000), cp.Dist)
}

func TestGenCoordinatePairUsesCommittedPairFirst(t *testing.T) {
	mate1 := []AlnCan{cand(500000, 50)}
	mate2 := []AlnCan{cand(500380, 50)}
	mate1[0].PairedIdx = 0
	mate2[0].PairedIdx = 0
	cp := GenCoordinatePair(mate1, mate2)
	assert.Equal(t, int64(500000), cp.GPos1)
	assert.Equal(t, int64(500380), cp.GPos2)
	assert.Equal(t, int64(380), cp.Dist)
}

// TestInversionEmissionIsSymmetric covers an asymmetry that must not recur:
// both opposite-strand branches must emit identically, unlike the
// original's asymmetric push_back.
func TestInversionEmissionIsSymmetric(t *testing.T) {
	d := int64(2000)
	fwdFirst := CoordinatePair{GPos1: 500000, GPos2: testTwoGenomeSize - 500000 - d}
	fwdFirst.Dist = abs64(fwdFirst.GPos2 - fwdFirst.GPos1)
	revFirst := CoordinatePair{GPos1: testTwoGenomeSize - 500000 - d, GPos2: 500000}
	revFirst.Dist = abs64(revFirst.GPos2 - revFirst.GPos1)

	k1, s1, _ := ClassifyDiscordance(fwdFirst, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	k2, s2, _ := ClassifyDiscordance(revFirst, testGenomeSize, testTwoGenomeSize, DefaultOpts)
	require.Len(t, s1, 1)
	require.Len(t, s2, 1)
	assert.Equal(t, k1, k2)
	assert.Equal(t, s1[0].GPos, s2[0].GPos)
}
