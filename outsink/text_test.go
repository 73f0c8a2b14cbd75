package outsink

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartseq/kart/align"
)

type fakeCoord struct{ genomeSize int64 }

func (f fakeCoord) GenomeSize() int64 { return f.genomeSize }

func (f fakeCoord) DetermineCoordinate(gPos int64) (string, int64) {
	if gPos >= f.genomeSize {
		return "chr1", f.genomeSize*2 - 1 - gPos
	}
	return "chr1", gPos
}

func mappedRecord(header string, gPos int64) align.ReadRecord {
	cand := align.NewAlnCan([]align.Seed{{RPos: 0, GPos: gPos, Len: 20, PosDiff: gPos}}, 20)
	return align.ReadRecord{
		Header:     header,
		Seq:        "ACGTACGTACGTACGTACGT",
		Qual:       "IIIIIIIIIIIIIIIIIIII",
		RLen:       20,
		Candidates: []align.AlnCan{cand},
		Summary:    align.AlnSummary{Score: 20, SubScore: 0, BestAlnCanIdx: 0},
	}
}

func unmappedRecord(header string) align.ReadRecord {
	return align.ReadRecord{Header: header, Seq: "ACGT", Qual: "IIII", RLen: 4}
}

func TestTextWriterWritesMappedRead(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, fakeCoord{genomeSize: 1000})
	rec := mappedRecord("r1", 100)
	require.NoError(t, w.WriteChunk(context.Background(), []align.ReadRecord{rec}))
	assert.Equal(t, "r1\tchr1\t101\t+\t60\n", buf.String())
}

func TestTextWriterWritesReverseStrand(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, fakeCoord{genomeSize: 1000})
	rec := mappedRecord("r1", 1500)
	require.NoError(t, w.WriteChunk(context.Background(), []align.ReadRecord{rec}))
	assert.Contains(t, buf.String(), "\t-\t")
}

func TestTextWriterWritesUnmappedPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, fakeCoord{genomeSize: 1000})
	rec := unmappedRecord("r2")
	require.NoError(t, w.WriteChunk(context.Background(), []align.ReadRecord{rec}))
	assert.Equal(t, "r2\t*\t0\t*\t0\n", buf.String())
}
