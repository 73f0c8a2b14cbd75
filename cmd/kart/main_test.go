package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstField(t *testing.T) {
	assert.Equal(t, "chr1", firstField("chr1 Homo sapiens chromosome 1"))
	assert.Equal(t, "chr1", firstField("chr1\tdescription"))
	assert.Equal(t, "chr1", firstField("chr1"))
}

func TestLoadReference(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.fa")

	f, err := file.Create(ctx, path)
	require.NoError(t, err)
	_, err = f.Writer(ctx).Write([]byte(">chr1 test chromosome\nACGTACGTAC\nGTACGTACGT\n>chr2\nTTTTGGGGCC\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close(ctx))

	chroms := loadReference(ctx, path)
	require.Len(t, chroms, 2)
	assert.Equal(t, "chr1", chroms[0].Name)
	assert.Equal(t, "ACGTACGTACGTACGTACGT", chroms[0].Seq)
	assert.Equal(t, "chr2", chroms[1].Name)
	assert.Equal(t, "TTTTGGGGCC", chroms[1].Seq)
}
