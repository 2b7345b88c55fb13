package fusion

import (
	"math"

	"github.com/grailbio/fusionseq/annotation"
)

// Intra is a same-transcript read pair, retained only when both ends
// classify as exonic.
type Intra struct {
	Transcript annotation.TranscriptID
	ReadStart1, ReadEnd1 int
	ReadStart2, ReadEnd2 int
	Weight               float64
}

// Inter is a cross-transcript read pair.
type Inter struct {
	Transcript1, Transcript2 annotation.TranscriptID
	ReadStart1, ReadEnd1     int
	ReadStart2, ReadEnd2     int
	Read1, Read2             string
	PairType                 int
	Number1, Number2         int
	Weight                   float64
}

// SuperIntra groups every Intra belonging to one transcript.
type SuperIntra struct {
	Transcript annotation.TranscriptID
	Intras     []Intra
}

// NumIntras returns the sum of weights over every Intra in s.
func (s *SuperIntra) NumIntras() float64 {
	var total float64
	for _, in := range s.Intras {
		total += in.Weight
	}
	return total
}

// SuperInter groups every Inter sharing the same ordered (transcript1,
// transcript2) pair; (A,B) and (B,A) are distinct SuperInters.
type SuperInter struct {
	Transcript1, Transcript2 annotation.TranscriptID
	Inters                   []Inter
}

// NumInters returns the split-read-weighted count of Inters in s, rounded to
// the nearest integer. Weights are accumulated in floating point and rounded
// only here, at the point this value is reported or compared against a
// threshold — never truncated or rounded earlier.
func (s *SuperInter) NumInters() int {
	var total float64
	for _, in := range s.Inters {
		total += in.Weight
	}
	return int(math.Round(total))
}
