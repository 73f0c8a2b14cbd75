package ioreads

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// FASTARecord is a single FASTA entry: its header (without the leading '>')
// and its sequence with line breaks removed.
type FASTARecord struct {
	Name string
	Seq  string
}

// FASTAScanner reads a multi-record FASTA stream, folding wrapped sequence
// lines into one contiguous string per record. Used to load the reference
// genome and any supplementary contigs, as distinct from the per-read
// Scanner above which speaks FASTQ.
type FASTAScanner struct {
	b       *bufio.Scanner
	err     error
	pending string
	done    bool
}

// NewFASTAScanner builds a FASTAScanner over r.
func NewFASTAScanner(r io.Reader) *FASTAScanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &FASTAScanner{b: b}
}

// Scan reads the next record into rec, returning false at EOF or on error.
func (f *FASTAScanner) Scan(rec *FASTARecord) bool {
	if f.err != nil || f.done {
		return false
	}
	var header string
	if f.pending != "" {
		header = f.pending
		f.pending = ""
	} else {
		if !f.advancePastBlankLines() {
			return false
		}
		line := f.b.Text()
		if len(line) == 0 || line[0] != '>' {
			f.err = ErrInvalid
			return false
		}
		header = line
	}
	var seq strings.Builder
	for f.b.Scan() {
		line := f.b.Text()
		if len(line) > 0 && line[0] == '>' {
			f.pending = line
			break
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if f.pending == "" {
		if err := f.b.Err(); err != nil {
			f.err = err
			return false
		}
		f.done = true
	}
	rec.Name = strings.TrimPrefix(header, ">")
	rec.Seq = seq.String()
	return true
}

func (f *FASTAScanner) advancePastBlankLines() bool {
	for f.b.Scan() {
		if strings.TrimSpace(f.b.Text()) != "" {
			return true
		}
	}
	if err := f.b.Err(); err != nil {
		f.err = err
	}
	return false
}

// Err returns the scanning error, or nil at a clean EOF.
func (f *FASTAScanner) Err() error {
	return f.err
}

// ReadAllFASTA drains r into a slice of records, in order. Used at startup
// to load a reference genome small enough to fit in memory, mirroring how
// refgenome.NewReference expects a fully materialized chromosome list.
func ReadAllFASTA(r io.Reader) ([]FASTARecord, error) {
	s := NewFASTAScanner(r)
	var out []FASTARecord
	var rec FASTARecord
	for s.Scan(&rec) {
		out = append(out, rec)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenFASTA opens path (transparently gzip-decoded if it ends in .gz)
// and reads every record from it, the reference-loading counterpart of
// OpenSingleEndChunkReader.
func OpenFASTA(ctx context.Context, path string) ([]FASTARecord, error) {
	r, closer, err := openMaybeCompressed(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closer(ctx)
	return ReadAllFASTA(r)
}
