package outsink

import (
	"bytes"
	"context"
	"testing"

	"github.com/grailbio/hts/bam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartseq/kart/align"
)

func TestBAMWriterWritesMappedAndUnmappedReads(t *testing.T) {
	var buf bytes.Buffer
	coord := fakeCoord{genomeSize: 1000}
	w, err := NewBAMWriter(&buf, coord, []string{"chr1"}, []int{1000}, 1)
	require.NoError(t, err)

	mapped := mappedRecord("r1", 100)
	unmapped := unmappedRecord("r2")
	require.NoError(t, w.WriteChunk(context.Background(), []align.ReadRecord{mapped, unmapped}))
	require.NoError(t, w.Close())

	reader, err := bam.NewReader(bytes.NewReader(buf.Bytes()), 1)
	require.NoError(t, err)
	defer reader.Close()

	rec1, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, "r1", rec1.Name)
	assert.Equal(t, 100, rec1.Pos)
	assert.Equal(t, "chr1", rec1.Ref.Name())

	rec2, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, "r2", rec2.Name)
	assert.True(t, rec2.Flags&4 != 0)
}

func TestNewBAMWriterRejectsMismatchedLengths(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewBAMWriter(&buf, fakeCoord{genomeSize: 1000}, []string{"chr1", "chr2"}, []int{1000}, 1)
	assert.Error(t, err)
}

func TestCandidateCigarSoftClipsBothEnds(t *testing.T) {
	cand := align.NewAlnCan([]align.Seed{{RPos: 4, GPos: 4, Len: 12, PosDiff: 0}}, 20)
	rec := align.ReadRecord{
		RLen:       20,
		Candidates: []align.AlnCan{cand},
		Summary:    align.AlnSummary{Score: 12, BestAlnCanIdx: 0},
	}
	cigar := candidateCigar(&rec)
	require.Len(t, cigar, 3)
}

func TestCandidateCigarUnmappedReturnsNil(t *testing.T) {
	rec := align.ReadRecord{RLen: 10}
	assert.Nil(t, candidateCigar(&rec))
}
