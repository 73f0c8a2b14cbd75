package outsink

import (
	"context"
	"fmt"
	"io"

	"github.com/kartseq/kart/align"
)

// TextWriter emits one tab-separated line per read: header, chromosome,
// offset, strand, and mapping quality; an unmapped read gets "*" for
// chromosome and strand and 0 for offset and mapping quality.
// Grounded on writeFASTA's writeString/fmt.Fprintf emission loop in
// cmd/bio-fusion/main.go, generalized from a fusion-candidate record to an
// aligned read.
type TextWriter struct {
	w     io.Writer
	coord Coordinate
}

// NewTextWriter builds a TextWriter over w, resolving candidate positions
// through coord.
func NewTextWriter(w io.Writer, coord Coordinate) *TextWriter {
	return &TextWriter{w: w, coord: coord}
}

// WriteChunk implements mapper.OutputSink.
func (t *TextWriter) WriteChunk(ctx context.Context, reads []align.ReadRecord) error {
	for i := range reads {
		if err := t.writeOne(&reads[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextWriter) writeOne(rec *align.ReadRecord) error {
	p := locate(t.coord, rec)
	if !p.ok {
		_, err := fmt.Fprintf(t.w, "%s\t*\t0\t*\t0\n", rec.Header)
		return err
	}
	strand := "+"
	if p.reverse {
		strand = "-"
	}
	_, err := fmt.Fprintf(t.w, "%s\t%s\t%d\t%s\t%d\n", rec.Header, p.chrom, p.offset+1, strand, rec.MapQ())
	return err
}
