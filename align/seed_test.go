package align

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndex is a minimal Index stand-in for unit tests: it reports a fixed
// match length and location list for every query, ignoring the actual
// encoded bytes. Tests that need position-dependent behavior use
// mapIndex instead.
type fakeIndex struct {
	len  int
	locs []int64
	err  error
}

func (f fakeIndex) BWTSearch(encoded []byte, from, rlen int) (MatchResult, error) {
	if f.err != nil {
		return MatchResult{}, f.err
	}
	l := f.len
	if from+l > rlen {
		l = rlen - from
	}
	return MatchResult{Len: l, Locations: f.locs}, nil
}

// mapIndex returns a fixed MatchResult keyed by the query's from position.
type mapIndex map[int]MatchResult

func (m mapIndex) BWTSearch(encoded []byte, from, rlen int) (MatchResult, error) {
	if r, ok := m[from]; ok {
		return r, nil
	}
	return MatchResult{}, nil
}

func TestFindSeedsDiscardsNonPositivePosDiff(t *testing.T) {
	// gPos == rPos produces posDiff == 0, which must be discarded.
	idx := mapIndex{0: {Len: 25, Locations: []int64{0, 100}}}
	encoded := EncodeRead(rep("A", 50))
	seeds, err := FindSeeds(context.Background(), idx, encoded, DefaultOpts, 2000000)
	require.NoError(t, err)
	// Sentinel always present; only the gPos=100 occurrence survives.
	require.Len(t, seeds, 2)
	assert.Equal(t, int64(100), seeds[0].PosDiff)
}

func TestFindSeedsSkipsAmbiguousBases(t *testing.T) {
	encoded := EncodeRead("NNNNN" + rep("A", 45))
	idx := mapIndex{5: {Len: 25, Locations: []int64{105}}}
	seeds, err := FindSeeds(context.Background(), idx, encoded, DefaultOpts, 2000000)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, 5, seeds[0].RPos)
}

func TestFindSeedsEmptyForShortRead(t *testing.T) {
	encoded := EncodeRead(rep("A", 10)) // shorter than MinSeedLength
	seeds, err := FindSeeds(context.Background(), fakeIndex{}, encoded, DefaultOpts, 2000000)
	require.NoError(t, err)
	// Only the sentinel remains.
	require.Len(t, seeds, 1)
	assert.Equal(t, int64(2000000), seeds[0].PosDiff)
}

func TestFindSeedsSortedByPosDiffThenRPos(t *testing.T) {
	idx := mapIndex{
		0:  {Len: 20, Locations: []int64{500}},
		21: {Len: 20, Locations: []int64{300}},
	}
	encoded := EncodeRead(rep("A", 60))
	seeds, err := FindSeeds(context.Background(), idx, encoded, DefaultOpts, 2000000)
	require.NoError(t, err)
	require.Len(t, seeds, 3)
	assert.True(t, seeds[0].PosDiff <= seeds[1].PosDiff)
}

func rep(s string, n int) string {
	b := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		b = append(b, s...)
	}
	return string(b)
}
