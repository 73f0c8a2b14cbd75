// Package ioreads scans FASTQ (and, for reference sequences, FASTA) input
// into align.ReadRecord batches, and implements mapper.ChunkSource so the
// worker pool can pull fixed-size, optionally paired chunks straight off
// disk or an object store. Adapted from encoding/fastq's Scanner/PairScanner,
// kept nearly verbatim where the line-oriented FASTQ grammar is unchanged,
// generalized where chunking calls for it. Reads are returned as read;
// mate 2 is reverse-complemented later, by package mapper.
package ioreads

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShort is returned when a truncated FASTQ record is encountered.
	ErrShort = errors.New("ioreads: short FASTQ record")
	// ErrInvalid is returned when a FASTQ record's framing lines don't
	// begin with '@'/'+' as expected.
	ErrInvalid = errors.New("ioreads: invalid FASTQ record")
	// ErrDiscordant is returned when a read-pair's two streams end at
	// different points.
	ErrDiscordant = errors.New("ioreads: discordant FASTQ pairs")
)

var errEOF = errors.New("ioreads: eof")

// Read is a single FASTQ record: an ID line (including the leading '@'),
// sequence, the "unknown" (line 3, usually just "+") line, and quality.
type Read struct {
	ID, Seq, Unk, Qual string
}

// Field enumerates FASTQ fields a Scanner should populate. Skipping fields
// you don't need avoids needless string allocation.
type Field uint

const (
	FieldID Field = 1 << iota
	FieldSeq
	FieldUnk
	FieldQual
	FieldAll = FieldID | FieldSeq | FieldUnk | FieldQual
)

// Scanner reads one FASTQ stream record by record. Not safe for concurrent
// use, matching encoding/fastq.Scanner.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
}

// NewScanner builds a Scanner over r, populating the fields named by fields.
func NewScanner(r io.Reader, fields Field) *Scanner {
	return &Scanner{b: bufio.NewScanner(r), fields: fields}
}

// Scan reads the next record into read, returning false at EOF or on error;
// call Err to distinguish the two.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	if s.fields&FieldID != 0 {
		read.ID = string(id)
	}
	if !s.scanLine() {
		return false
	}
	if s.fields&FieldSeq != 0 {
		read.Seq = s.b.Text()
	}
	if !s.scanLine() {
		return false
	}
	unk := s.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	if s.fields&FieldUnk != 0 {
		read.Unk = string(unk)
	}
	if !s.scanLine() {
		return false
	}
	if s.fields&FieldQual != 0 {
		read.Qual = s.b.Text()
	}
	return true
}

func (s *Scanner) scanLine() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, or nil at a clean EOF.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// PairScanner scans two FASTQ streams (R1/R2) in lockstep.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner builds a PairScanner over r1 and r2.
func NewPairScanner(r1, r2 io.Reader, fields Field) *PairScanner {
	return &PairScanner{r1: NewScanner(r1, fields), r2: NewScanner(r2, fields)}
}

// Scan reads the next record pair, returning false once either stream is
// exhausted or errors.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the first error observed on either stream, or the
// discordance error if the two streams ended at different points.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
