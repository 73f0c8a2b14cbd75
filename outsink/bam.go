package outsink

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"

	"github.com/kartseq/kart/align"
)

// BAMWriter emits aligned reads as real BAM records, grounded on
// markduplicates/testutils.go's sam.Header/sam.Reference construction and
// the bam.NewWriter/Write/Close sequence exercised in pileup/snp's BAM
// round-trip test.
type BAMWriter struct {
	w      *bam.Writer
	header *sam.Header
	coord  Coordinate
	refs   map[string]*sam.Reference
}

// NewBAMWriter builds a sam.Header with one reference per chromosome and
// opens a bam.Writer over w. chromNames must list every chromosome name
// Coordinate.DetermineCoordinate can report, in forward-strand order, and
// chromLengths their lengths in the same order.
func NewBAMWriter(w io.Writer, coord Coordinate, chromNames []string, chromLengths []int, concurrency int) (*BAMWriter, error) {
	if len(chromNames) != len(chromLengths) {
		return nil, fmt.Errorf("outsink: %d chromosome names but %d lengths", len(chromNames), len(chromLengths))
	}
	refs := make([]*sam.Reference, len(chromNames))
	refByName := make(map[string]*sam.Reference, len(chromNames))
	for i, name := range chromNames {
		ref, err := sam.NewReference(name, "", "", chromLengths[i], nil, nil)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
		refByName[name] = ref
	}
	header, err := sam.NewHeader(nil, refs)
	if err != nil {
		return nil, err
	}
	bw, err := bam.NewWriter(w, header, concurrency)
	if err != nil {
		return nil, err
	}
	return &BAMWriter{w: bw, header: header, coord: coord, refs: refByName}, nil
}

// WriteChunk implements mapper.OutputSink. A read that cannot be turned
// into a BAM record is logged and dropped; errors from the underlying
// bam.Writer are returned.
func (b *BAMWriter) WriteChunk(ctx context.Context, reads []align.ReadRecord) error {
	for i := range reads {
		rec, err := b.toSAMRecord(&reads[i])
		if err != nil {
			log.Error.Printf("outsink: dropping record %q: %v", reads[i].Header, err)
			continue
		}
		if err := b.w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying bam.Writer.
func (b *BAMWriter) Close() error {
	return b.w.Close()
}

func (b *BAMWriter) toSAMRecord(rec *align.ReadRecord) (*sam.Record, error) {
	r := &sam.Record{
		Name:    rec.Header,
		Seq:     sam.NewSeq([]byte(rec.Seq)),
		Qual:    []byte(rec.Qual),
		Pos:     -1,
		MatePos: -1,
	}
	p := locate(b.coord, rec)
	if !p.ok {
		r.Flags = sam.Unmapped
		return r, nil
	}
	ref, ok := b.refs[p.chrom]
	if !ok {
		return nil, fmt.Errorf("outsink: unknown chromosome %q", p.chrom)
	}
	r.Ref = ref
	r.Pos = int(p.offset)
	r.MapQ = rec.MapQ()
	r.Cigar = candidateCigar(rec)
	if p.reverse {
		r.Flags |= sam.Reverse
	}
	return r, nil
}

// candidateCigar builds a soft-clip/match/soft-clip CIGAR from the best
// candidate's clip hints. The mapping core tracks only exact-match seed
// spans and their flanking clips, not base-level indel operations, so this
// is necessarily coarser than a true gapped alignment's CIGAR.
func candidateCigar(rec *align.ReadRecord) sam.Cigar {
	if rec.Summary.Score == 0 || rec.Summary.BestAlnCanIdx < 0 || rec.Summary.BestAlnCanIdx >= len(rec.Candidates) {
		return nil
	}
	best := rec.Candidates[rec.Summary.BestAlnCanIdx]
	matchLen := rec.RLen - best.HeadClip - best.TailClip
	if matchLen <= 0 {
		return sam.Cigar{sam.NewCigarOp(sam.CigarMatch, rec.RLen)}
	}
	var c sam.Cigar
	if best.HeadClip > 0 {
		c = append(c, sam.NewCigarOp(sam.CigarSoftClipped, best.HeadClip))
	}
	c = append(c, sam.NewCigarOp(sam.CigarMatch, matchLen))
	if best.TailClip > 0 {
		c = append(c, sam.NewCigarOp(sam.CigarSoftClipped, best.TailClip))
	}
	return c
}
