package ioreads

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkReaderSingleEndFillsChunk(t *testing.T) {
	data := "@r1\nACGT\n+\nIIII\n@r2\nGGGG\n+\nIIII\n@r3\nTTTT\n+\nIIII\n"
	cr := NewSingleEndChunkReader(strings.NewReader(data))

	reads, paired, err := cr.NextChunk(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, paired)
	require.Len(t, reads, 2)
	assert.Equal(t, "r1", reads[0].Header)
	assert.Equal(t, "ACGT", reads[0].Seq)
	assert.Equal(t, 4, reads[0].RLen)

	reads, _, err = cr.NextChunk(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "r3", reads[0].Header)

	reads, _, err = cr.NextChunk(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, reads, 0)
	assert.Equal(t, uint64(3), cr.ReadCount())
}

func TestChunkReaderPairedEndInterleavesMates(t *testing.T) {
	r1 := "@a\nACGT\n+\nIIII\n@b\nGGGG\n+\nIIII\n"
	r2 := "@a\nTTTT\n+\nJJJJ\n@b\nCCCC\n+\nJJJJ\n"
	cr := NewPairedEndChunkReader(strings.NewReader(r1), strings.NewReader(r2))

	reads, paired, err := cr.NextChunk(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, paired)
	require.Len(t, reads, 4)
	assert.Equal(t, "ACGT", reads[0].Seq)
	assert.Equal(t, "TTTT", reads[1].Seq)
	assert.Equal(t, "GGGG", reads[2].Seq)
	assert.Equal(t, "CCCC", reads[3].Seq)
}

func TestChunkReaderStripsLeadingAtFromHeader(t *testing.T) {
	data := "@only\nACGT\n+\nIIII\n"
	cr := NewSingleEndChunkReader(strings.NewReader(data))
	reads, _, err := cr.NextChunk(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "only", reads[0].Header)
}

func TestChunkReaderChecksumChangesWithContent(t *testing.T) {
	dataA := "@a\nACGT\n+\nIIII\n"
	dataB := "@a\nTTTT\n+\nIIII\n"
	crA := NewSingleEndChunkReader(strings.NewReader(dataA))
	crB := NewSingleEndChunkReader(strings.NewReader(dataB))
	_, _, err := crA.NextChunk(context.Background(), 10)
	require.NoError(t, err)
	_, _, err = crB.NextChunk(context.Background(), 10)
	require.NoError(t, err)
	assert.NotEqual(t, crA.Checksum(), crB.Checksum())
}

func TestChunkReaderCloseInvokesAllClosers(t *testing.T) {
	var closed []string
	closerA := func(ctx context.Context) error { closed = append(closed, "a"); return nil }
	closerB := func(ctx context.Context) error { closed = append(closed, "b"); return nil }
	cr := NewSingleEndChunkReader(strings.NewReader(""), closerA, closerB)
	require.NoError(t, cr.Close(context.Background()))
	assert.Equal(t, []string{"a", "b"}, closed)
}

func TestChunkReaderCloseReturnsFirstError(t *testing.T) {
	boom := assert.AnError
	closerA := func(ctx context.Context) error { return boom }
	closerB := func(ctx context.Context) error { return nil }
	cr := NewSingleEndChunkReader(strings.NewReader(""), closerA, closerB)
	assert.Equal(t, boom, cr.Close(context.Background()))
}
