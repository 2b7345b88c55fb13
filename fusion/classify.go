package fusion

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/fusionseq/annotation"
)

// Pair type constants, with the same values as the constants of the same
// names in package gfr.
const (
	PairTypeExonicExonic     = 1
	PairTypeExonicIntronic   = 2
	PairTypeExonicJunction   = 3
	PairTypeIntronicExonic   = 4
	PairTypeIntronicIntronic = 5
	PairTypeIntronicJunction = 6
	PairTypeJunctionJunction = 7
	PairTypeJunctionExonic   = 8
	PairTypeJunctionIntronic = 9
)

// ExonNumber returns the 1-based index of the first exon of t fully
// containing [start,end], or 0 if no exon contains it.
func ExonNumber(t *annotation.Transcript, start, end int) int {
	for i, exon := range t.Exons {
		if start >= exon.Start && end <= exon.End {
			return i + 1
		}
	}
	return 0
}

// IntronNumber returns the 1-based index k of the implicit intron
// (exon[k-1].End, exon[k].Start) strictly containing [start,end], or 0 if
// none does.
func IntronNumber(t *annotation.Transcript, start, end int) int {
	for i := 1; i < len(t.Exons); i++ {
		prev, curr := t.Exons[i-1], t.Exons[i]
		if start > prev.End && end < curr.Start {
			return i
		}
	}
	return 0
}

// JunctionNumber returns the virtual junction index of [start,end] on t: a
// span crossing exon k's start boundary gets 2k-1, crossing its end
// boundary gets 2k (first match wins, exons scanned in order). Only
// evaluated when exonNumber and intronNumber are both 0 (the caller passes
// them in so this function never has to recompute them).
func JunctionNumber(t *annotation.Transcript, start, end, exonNumber, intronNumber int) int {
	if exonNumber > 0 || intronNumber > 0 {
		return 0
	}
	for i, exon := range t.Exons {
		if start <= exon.Start && end >= exon.Start {
			return i*2 + 1
		}
		if start <= exon.End && end >= exon.End {
			return i*2 + 2
		}
	}
	return 0
}

// ClassificationError reports a read-pair end that matched none of exon,
// intron, or junction against its overlapping transcript — an
// annotation/input mismatch per spec (every uniquely-resolved end must
// classify as exactly one of the three).
type ClassificationError struct {
	Exon1, Intron1, Junction1 int
	Exon2, Intron2, Junction2 int
}

func (e *ClassificationError) Error() string {
	return errors.E("fusion: unclassifiable pair",
		fmt.Sprintf("exon1=%d intron1=%d junction1=%d exon2=%d intron2=%d junction2=%d",
			e.Exon1, e.Intron1, e.Junction1, e.Exon2, e.Intron2, e.Junction2)).Error()
}

// AssignPairType maps the per-end exon/intron/junction numbers to one of
// the 9 ordered pair-type constants plus the (number1, number2) pair this
// type carries. It returns a *ClassificationError if either end has no
// positive exon, intron, or junction number.
func AssignPairType(exon1, intron1, junction1, exon2, intron2, junction2 int) (pairType, number1, number2 int, err error) {
	switch {
	case exon1 > 0 && exon2 > 0:
		return PairTypeExonicExonic, exon1, exon2, nil
	case exon1 > 0 && intron2 > 0:
		return PairTypeExonicIntronic, exon1, intron2, nil
	case exon1 > 0 && junction2 > 0:
		return PairTypeExonicJunction, exon1, junction2, nil
	case intron1 > 0 && exon2 > 0:
		return PairTypeIntronicExonic, intron1, exon2, nil
	case intron1 > 0 && intron2 > 0:
		return PairTypeIntronicIntronic, intron1, intron2, nil
	case intron1 > 0 && junction2 > 0:
		return PairTypeIntronicJunction, intron1, junction2, nil
	case junction1 > 0 && junction2 > 0:
		return PairTypeJunctionJunction, junction1, junction2, nil
	case junction1 > 0 && exon2 > 0:
		return PairTypeJunctionExonic, junction1, exon2, nil
	case junction1 > 0 && intron2 > 0:
		return PairTypeJunctionIntronic, junction1, intron2, nil
	default:
		return 0, 0, 0, &ClassificationError{exon1, intron1, junction1, exon2, intron2, junction2}
	}
}

// weight returns the split-read weight for a pair given whether each end's
// block span matches its sequence length exactly: both full -> 1.0, exactly
// one split -> 0.5, both split -> 0.25.
func weight(end1Full, end2Full bool) float64 {
	switch {
	case !end1Full && !end2Full:
		return 0.25
	case end1Full != end2Full:
		return 0.5
	default:
		return 1.0
	}
}

// isFullyAligned reports whether a block's genomic span exactly matches its
// read's sequence length, i.e. the alignment is full rather than a
// partial/split (junction-spanning) one.
func isFullyAligned(start, end int, sequence string) bool {
	return end-start+1 == len(sequence)
}
