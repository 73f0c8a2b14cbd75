package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartseq/kart/align"
	"github.com/kartseq/kart/ioreads"
	"github.com/kartseq/kart/mapper"
	"github.com/kartseq/kart/outsink"
	"github.com/kartseq/kart/profile"
	"github.com/kartseq/kart/refgenome"
)

// TestPipelineMapsASingleReadToText exercises the same wiring main() does
// (reference load, index, refiner, pool, text sink) end to end against a
// small in-memory reference and a single read that should map exactly,
// without going through package-level flags or grail.Init. The read is
// longer than MinSeedLength and lies at chr1 offset 4, since a seed needs
// a positive posDiff.
func TestPipelineMapsASingleReadToText(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	refPath := filepath.Join(dir, "ref.fa")
	writeFile(ctx, t, refPath, ">chr1\nTTTTACGTACGTACGTACGTACGTGGGGCCCCAAAA\n")

	fqPath := filepath.Join(dir, "reads.fq")
	writeFile(ctx, t, fqPath, "@r1\nACGTACGTACGTACGTACGTGGGG\n+\nIIIIIIIIIIIIIIIIIIIIIIII\n")

	chroms := loadReference(ctx, refPath)
	ref := refgenome.NewReference(chroms)
	coord := ref.Coordinate()

	prof := profile.New(coord.GenomeSize())
	agg := mapper.NewAggregate(prof)

	var out bytes.Buffer
	sink := outsink.NewTextWriter(&out, coord)

	refiner := refgenome.NewNaiveRefiner(ref)
	pool := mapper.NewPool(align.DefaultOpts, ref.Index(), coord, refiner, sink, agg, 1)

	source, err := ioreads.OpenSingleEndChunkReader(ctx, fqPath)
	require.NoError(t, err)
	require.NoError(t, pool.Run(ctx, source))
	require.NoError(t, source.Close(ctx))

	assert.Equal(t, int64(1), agg.TotalReadNum)
	assert.Equal(t, int64(1), agg.TotalMappingNum)
	assert.Equal(t, "r1\tchr1\t5\t+\t60\n", out.String())
}

func writeFile(ctx context.Context, t *testing.T, path, contents string) {
	t.Helper()
	f, err := file.Create(ctx, path)
	require.NoError(t, err)
	_, err = f.Writer(ctx).Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, f.Close(ctx))
}
