package fusion

import (
	"sort"

	"github.com/grailbio/fusionseq/annotation"
)

// Coordinate maps one genomic base to a 1-based index in a
// locally-constructed linear transcript.
type Coordinate struct {
	Chromosome string
	Genomic    int
	Transcript int
}

// ConvertIntraCoordinates enumerates every genomic base of every exon of t
// in annotation order, assigning a 1-based linear index, and returns the
// result sorted by (chromosome, genomic) for binary-searchable lookup.
func ConvertIntraCoordinates(t *annotation.Transcript) []Coordinate {
	var coords []Coordinate
	k := 1
	for _, exon := range t.Exons {
		for g := exon.Start; g <= exon.End; g++ {
			coords = append(coords, Coordinate{Chromosome: t.Chrom, Genomic: g, Transcript: k})
			k++
		}
	}
	sortCoordinates(coords)
	return coords
}

func sortCoordinates(coords []Coordinate) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Chromosome != coords[j].Chromosome {
			return coords[i].Chromosome < coords[j].Chromosome
		}
		return coords[i].Genomic < coords[j].Genomic
	})
}

// lookupCoordinate returns the transcript index for (chromosome, genomic)
// in a coordinate slice already sorted by sortCoordinates, and whether it
// was found. A miss is a LookupMiss: non-fatal, the caller skips the
// offset.
func lookupCoordinate(coords []Coordinate, chromosome string, genomic int) (int, bool) {
	i := sort.Search(len(coords), func(i int) bool {
		if coords[i].Chromosome != chromosome {
			return coords[i].Chromosome >= chromosome
		}
		return coords[i].Genomic >= genomic
	})
	if i < len(coords) && coords[i].Chromosome == chromosome && coords[i].Genomic == genomic {
		return coords[i].Transcript, true
	}
	return 0, false
}

// fusionEnvelope is the monotonically-expanded genomic span on each side of
// a candidate's valid exonic-exonic pairs.
type fusionEnvelope struct {
	start1, end1 int
	start2, end2 int
	found        bool
}

// computeFusionEnvelope finds the first Inter whose triple is a valid
// exonic-exonic pair (isValidExonExonPair) and expands its span over every
// remaining valid pair. envelope.found is false if no Inter qualifies
// (envelope-unfit candidate).
func computeFusionEnvelope(inters []Inter, counts []PairCount) fusionEnvelope {
	var env fusionEnvelope
	for _, in := range inters {
		if !isValidExonExonPair(in, counts) {
			continue
		}
		if !env.found {
			env = fusionEnvelope{start1: in.ReadStart1, end1: in.ReadEnd1, start2: in.ReadStart2, end2: in.ReadEnd2, found: true}
			continue
		}
		env.start1 = min(env.start1, in.ReadStart1)
		env.end1 = max(env.end1, in.ReadEnd1)
		env.start2 = min(env.start2, in.ReadStart2)
		env.end2 = max(env.end2, in.ReadEnd2)
	}
	return env
}

// addInterCoordinates appends, to coordinates, every genomic base of every
// exon k of t for which isValidExon(k, isFirst), restricted to
// [envStart,envEnd], assigning sequential indices starting at *next.
func addInterCoordinates(t *annotation.Transcript, counts []PairCount, envStart, envEnd int, isFirst bool, next *int, coords *[]Coordinate) {
	for i, exon := range t.Exons {
		if !isValidExon(counts, i+1, isFirst) {
			continue
		}
		for g := exon.Start; g <= exon.End; g++ {
			if g >= envStart && g <= envEnd {
				*coords = append(*coords, Coordinate{Chromosome: t.Chrom, Genomic: g, Transcript: *next})
				*next++
			}
		}
	}
}

// ConvertInterCoordinates builds the restricted linear coordinate map for a
// SuperInter's fusion envelope. isAB selects concatenation order: true puts
// transcript1's envelope first, false puts transcript2's first. ok is false
// when the candidate is envelope-unfit (no valid exonic-exonic pair).
func ConvertInterCoordinates(t1, t2 *annotation.Transcript, sInter *SuperInter, isAB bool) (coords []Coordinate, ok bool) {
	counts := countPairs(sInter.Inters)
	env := computeFusionEnvelope(sInter.Inters, counts)
	if !env.found {
		return nil, false
	}

	next := 1
	if isAB {
		addInterCoordinates(t1, counts, env.start1, env.end1, true, &next, &coords)
		addInterCoordinates(t2, counts, env.start2, env.end2, false, &next, &coords)
	} else {
		addInterCoordinates(t2, counts, env.start2, env.end2, false, &next, &coords)
		addInterCoordinates(t1, counts, env.start1, env.end1, true, &next, &coords)
	}
	sortCoordinates(coords)
	return coords, true
}
