package ioreads

import (
	"context"
	"hash"
	"io"

	"blainsmith.com/go/seahash"

	"github.com/kartseq/kart/align"
)

// ChunkReader implements mapper.ChunkSource over one or two FASTQ streams,
// returning chunks with mates co-located at even/odd indices when paired.
// Grounded on readFASTQ's per-record loop in cmd/bio-fusion/main.go,
// generalized from "push every record onto a channel" to "fill a
// caller-sized batch and return it".
type ChunkReader struct {
	paired bool
	pair   *PairScanner
	single *Scanner

	closers []closeFunc

	checksum hash.Hash64
	nRead    uint64
}

// NewSingleEndChunkReader builds a ChunkReader over one FASTQ stream.
func NewSingleEndChunkReader(r io.Reader, closers ...closeFunc) *ChunkReader {
	return &ChunkReader{
		single:   NewScanner(r, FieldID|FieldSeq|FieldQual),
		closers:  closers,
		checksum: seahash.New(),
	}
}

// NewPairedEndChunkReader builds a ChunkReader over an R1/R2 stream pair.
func NewPairedEndChunkReader(r1, r2 io.Reader, closers ...closeFunc) *ChunkReader {
	return &ChunkReader{
		paired:   true,
		pair:     NewPairScanner(r1, r2, FieldID|FieldSeq|FieldQual),
		closers:  closers,
		checksum: seahash.New(),
	}
}

// OpenSingleEndChunkReader opens one FASTQ path (transparently gzip-decoded
// if it ends in .gz) and wraps it in a ChunkReader.
func OpenSingleEndChunkReader(ctx context.Context, path string) (*ChunkReader, error) {
	r, closer, err := openMaybeCompressed(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewSingleEndChunkReader(r, closer), nil
}

// OpenPairedEndChunkReader opens an R1/R2 FASTQ path pair and wraps them in
// a ChunkReader.
func OpenPairedEndChunkReader(ctx context.Context, r1Path, r2Path string) (*ChunkReader, error) {
	r1, closer1, err := openMaybeCompressed(ctx, r1Path)
	if err != nil {
		return nil, err
	}
	r2, closer2, err := openMaybeCompressed(ctx, r2Path)
	if err != nil {
		closer1(ctx)
		return nil, err
	}
	return NewPairedEndChunkReader(r1, r2, closer1, closer2), nil
}

// NextChunk implements mapper.ChunkSource. It is not safe for concurrent
// use; mapper.Pool serializes calls to it under Aggregate.LibraryLock, the
// same guarantee GetNextChunk relied on in the original aligner.
func (c *ChunkReader) NextChunk(ctx context.Context, maxReads int) ([]align.ReadRecord, bool, error) {
	if c.paired {
		return c.nextPairedChunk(maxReads)
	}
	return c.nextSingleChunk(maxReads)
}

func (c *ChunkReader) nextSingleChunk(maxReads int) ([]align.ReadRecord, bool, error) {
	var out []align.ReadRecord
	var r Read
	for len(out) < maxReads {
		if !c.single.Scan(&r) {
			if err := c.single.Err(); err != nil {
				return nil, false, err
			}
			break
		}
		out = append(out, c.toRecord(r))
	}
	return out, false, nil
}

func (c *ChunkReader) nextPairedChunk(maxReads int) ([]align.ReadRecord, bool, error) {
	var out []align.ReadRecord
	var r1, r2 Read
	for len(out) < maxReads {
		if !c.pair.Scan(&r1, &r2) {
			if err := c.pair.Err(); err != nil {
				return nil, true, err
			}
			break
		}
		out = append(out, c.toRecord(r1), c.toRecord(r2))
	}
	return out, true, nil
}

func (c *ChunkReader) toRecord(r Read) align.ReadRecord {
	c.nRead++
	c.checksum.Write([]byte(r.ID))
	c.checksum.Write([]byte(r.Seq))
	header := r.ID
	if len(header) > 0 && header[0] == '@' {
		header = header[1:]
	}
	return align.ReadRecord{Header: header, Seq: r.Seq, Qual: r.Qual, RLen: len(r.Seq)}
}

// ReadCount returns the number of records returned so far.
func (c *ChunkReader) ReadCount() uint64 { return c.nRead }

// Checksum returns a running seahash digest over every (ID, Seq) pair
// returned so far: two readers that have returned the same records in the
// same order report the same value. Nothing in this repository stores or
// compares it across runs.
func (c *ChunkReader) Checksum() uint64 { return c.checksum.Sum64() }

// Close closes every underlying handle passed to the constructor, returning
// the first error encountered.
func (c *ChunkReader) Close(ctx context.Context) error {
	var first error
	for _, cl := range c.closers {
		if err := cl(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
