// Package annotation loads a gene-model (transcript) annotation and answers
// overlap queries against it: a read-only, in-memory index from genomic
// interval to the transcript(s) that overlap it.
package annotation

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// TranscriptID is a dense, process-lifetime-stable index assigned to a
// transcript at load time, in file order. It takes the place of pointer
// identity for comparing transcripts: every evidence structure downstream
// holds a TranscriptID, never a *Transcript, so equality and ordering are
// plain integer comparisons.
type TranscriptID int32

// Exon is one sub-interval of a transcript, in genomic coordinates.
// Invariant (enforced at load): Start <= End, and exon i's End < exon i+1's
// Start.
type Exon struct {
	Start, End int
}

// Transcript is one annotation record. The annotation index owns
// every Transcript for the process lifetime; nothing else mutates it after
// Load returns.
type Transcript struct {
	ID     TranscriptID
	Name   string
	Chrom  string
	Strand byte
	Start  int
	End    int
	Exons  []Exon
}

// LoadError reports a malformed interval-format annotation record.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	return errors.Wrapf(e.Err, "annotation: %s:%d", e.Path, e.Line).Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Index is the read-only annotation index: every loaded Transcript, plus one
// interval tree per chromosome for sublinear overlap queries.
type Index struct {
	transcripts []*Transcript
	byChrom     map[string]*intervalTree
}

// Transcripts returns every transcript in load order. The returned slice must
// not be mutated.
func (idx *Index) Transcripts() []*Transcript { return idx.transcripts }

// Transcript returns the transcript with the given ID.
func (idx *Index) Transcript(id TranscriptID) *Transcript { return idx.transcripts[id] }

// OverlappingTranscripts returns every transcript whose genomic span
// [Start,End] overlaps the closed interval [start,end] on chrom, in no
// particular order.
func (idx *Index) OverlappingTranscripts(chrom string, start, end int) []*Transcript {
	tree := idx.byChrom[chrom]
	if tree == nil {
		return nil
	}
	return tree.overlapping(start, end)
}

// Load reads the tab-separated transcript interval file: one record per
// line,
//
//	name  chrom  strand  start  end  numSubIntervals  (subStart subEnd)*
//
// with sub-interval start/end as two further tab-separated fields per
// sub-interval (so a 2-exon record has 10 fields total). Exons must already
// be in ascending, non-overlapping order; Load does not sort them, matching
// the reference implementation's assumption that the annotation file is
// pre-sorted by its generator.
func Load(ctx context.Context, path string) (*Index, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "annotation: open %s", path)
	}
	defer func() {
		if cerr := f.Close(ctx); cerr != nil {
			log.Error.Printf("annotation: close %s: %v", path, cerr)
		}
	}()

	reader := f.Reader(ctx)
	var r io.Reader = reader
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, gerr := gzip.NewReader(reader)
		if gerr != nil {
			return nil, errors.Wrapf(gerr, "annotation: gzip %s", path)
		}
		defer gz.Close()
		r = gz
	}

	idx := &Index{byChrom: map[string]*intervalTree{}}
	chromExons := map[string][]*Transcript{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		t, err := parseRecord(line)
		if err != nil {
			return nil, &LoadError{path, lineNo, err}
		}
		t.ID = TranscriptID(len(idx.transcripts))
		idx.transcripts = append(idx.transcripts, t)
		chromExons[t.Chrom] = append(chromExons[t.Chrom], t)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "annotation: read %s", path)
	}
	for chrom, ts := range chromExons {
		idx.byChrom[chrom] = newIntervalTree(ts)
	}
	log.Printf("annotation: loaded %d transcripts on %d chromosomes from %s", len(idx.transcripts), len(idx.byChrom), path)
	return idx, nil
}

func parseRecord(line string) (*Transcript, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 6 {
		return nil, errors.Errorf("expected at least 6 tab-separated fields, got %d", len(fields))
	}
	t := &Transcript{Name: fields[0], Chrom: fields[1]}
	if len(fields[2]) != 1 || (fields[2][0] != '+' && fields[2][0] != '-') {
		return nil, errors.Errorf("malformed strand %q", fields[2])
	}
	t.Strand = fields[2][0]
	var err error
	if t.Start, err = strconv.Atoi(fields[3]); err != nil {
		return nil, errors.Wrap(err, "start")
	}
	if t.End, err = strconv.Atoi(fields[4]); err != nil {
		return nil, errors.Wrap(err, "end")
	}
	nsub, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, errors.Wrap(err, "numSubIntervals")
	}
	if len(fields) != 6+2*nsub {
		return nil, errors.Errorf("numSubIntervals=%d implies %d fields, got %d", nsub, 6+2*nsub, len(fields))
	}
	t.Exons = make([]Exon, nsub)
	for i := 0; i < nsub; i++ {
		es, eerr := strconv.Atoi(fields[6+2*i])
		if eerr != nil {
			return nil, errors.Wrapf(eerr, "exon %d start", i+1)
		}
		ee, eerr := strconv.Atoi(fields[7+2*i])
		if eerr != nil {
			return nil, errors.Wrapf(eerr, "exon %d end", i+1)
		}
		if es > ee {
			return nil, errors.Errorf("exon %d: start %d > end %d", i+1, es, ee)
		}
		if i > 0 && t.Exons[i-1].End >= es {
			return nil, errors.Errorf("exon %d start %d does not exceed previous exon end %d", i+1, es, t.Exons[i-1].End)
		}
		t.Exons[i] = Exon{es, ee}
	}
	return t, nil
}

// sortTranscriptsByStart is used when constructing the per-chromosome
// interval tree.
func sortTranscriptsByStart(ts []*Transcript) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Start < ts[j].Start })
}
