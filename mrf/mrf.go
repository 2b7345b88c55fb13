// Package mrf reads aligned paired-end reads in MRF ("mapped read format")
// form from a text stream: one entry per line, two reads per entry, each
// read an ordered list of genomic blocks plus its full sequence.
//
// This reader is not part of the fusion-detection core; the core's ingest
// pass pulls mrf.Entry values from a Reader over the process's standard
// input.
package mrf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Block is one aligned segment of a read: a 1-based, inclusive genomic span
// on a named target (chromosome/contig).
type Block struct {
	TargetName         string
	TargetStart, TargetEnd int
}

// Read is one mate of a pair: an ordered list of blocks (more than one
// indicates a spliced/junction-spanning alignment) and the mate's full,
// ungapped sequence.
type Read struct {
	Blocks   []Block
	Sequence string
}

// Entry is one paired-end alignment record.
type Entry struct {
	Read1, Read2 Read
}

// ParseError reports a malformed MRF record at a given input line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return errors.Wrapf(e.Err, "mrf: line %d", e.Line).Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader yields Entry values from an underlying text stream. Each line has
// the form
//
//	read1Blocks \t read1Sequence \t read2Blocks \t read2Sequence
//
// where a Blocks field is a semicolon-separated list of
// `targetName,start,end` triples, in alignment order (more than one triple
// means a split/junction-spanning alignment).
type Reader struct {
	scanner *bufio.Scanner
	lineNo  int
	err     error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{scanner: scanner}
}

// Next reads and parses the next entry. It returns io.EOF (bare, not wrapped
// in a ParseError) once the stream is exhausted.
func (r *Reader) Next() (*Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	for r.scanner.Scan() {
		r.lineNo++
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			r.err = &ParseError{r.lineNo, err}
			return nil, r.err
		}
		return e, nil
	}
	if err := r.scanner.Err(); err != nil {
		r.err = errors.Wrap(err, "mrf: read")
		return nil, r.err
	}
	r.err = io.EOF
	return nil, io.EOF
}

// LinesRead returns the number of input lines scanned so far, blank lines
// included; after a parse failure it is the number of the failing line.
func (r *Reader) LinesRead() int { return r.lineNo }

func parseLine(line string) (*Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return nil, errors.Errorf("expected 4 tab-separated fields, got %d", len(fields))
	}
	read1, err := parseRead(fields[0], fields[1])
	if err != nil {
		return nil, errors.Wrap(err, "read1")
	}
	read2, err := parseRead(fields[2], fields[3])
	if err != nil {
		return nil, errors.Wrap(err, "read2")
	}
	return &Entry{Read1: read1, Read2: read2}, nil
}

func parseRead(blocksField, sequence string) (Read, error) {
	if sequence == "" {
		return Read{}, errors.New("empty sequence")
	}
	blockStrs := strings.Split(blocksField, ";")
	blocks := make([]Block, len(blockStrs))
	for i, bs := range blockStrs {
		parts := strings.Split(bs, ",")
		if len(parts) != 3 {
			return Read{}, errors.Errorf("block %d: expected targetName,start,end, got %q", i+1, bs)
		}
		start, err := strconv.Atoi(parts[1])
		if err != nil {
			return Read{}, errors.Wrapf(err, "block %d start", i+1)
		}
		end, err := strconv.Atoi(parts[2])
		if err != nil {
			return Read{}, errors.Wrapf(err, "block %d end", i+1)
		}
		if start > end {
			return Read{}, errors.Errorf("block %d: start %d > end %d", i+1, start, end)
		}
		blocks[i] = Block{TargetName: parts[0], TargetStart: start, TargetEnd: end}
	}
	return Read{Blocks: blocks, Sequence: sequence}, nil
}

// FormatBlocks renders blocks back into the Blocks-field text form; used by
// tests and by any tool that re-emits an Entry it read.
func FormatBlocks(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = fmt.Sprintf("%s,%d,%d", b.TargetName, b.TargetStart, b.TargetEnd)
	}
	return strings.Join(parts, ";")
}
