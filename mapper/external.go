package mapper

import (
	"context"

	"github.com/kartseq/kart/align"
)

// ChunkSource supplies read chunks to the worker pool. An implementation is
// not required to be safe for concurrent use; Pool serializes all calls to
// it behind the library lock, mirroring the single GetNextChunk call site
// guarded by LibraryLock in the original aligner.
type ChunkSource interface {
	// NextChunk returns up to maxReads records (mates co-located at
	// even/odd indices when paired is true), or a zero-length slice with a
	// nil error once the source is exhausted.
	NextChunk(ctx context.Context, maxReads int) (reads []align.ReadRecord, paired bool, err error)
}

// OutputSink receives formatted alignment records. Pool calls WriteChunk
// once per processed chunk, from inside the output lock, so an
// implementation need not be safe for concurrent use either.
type OutputSink interface {
	WriteChunk(ctx context.Context, reads []align.ReadRecord) error
}
