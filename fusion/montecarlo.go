package fusion

import (
	"math/rand"
	"sort"

	"github.com/grailbio/fusionseq/annotation"
)

// CalculateIntraOffsets appends to offsets one entry per Intra in
// superIntra: idx(readEnd2) - idx(readStart1) + 1, looked up in coords (the
// output of ConvertIntraCoordinates for superIntra's transcript). A
// coordinate miss is a LookupMiss: skipped, not fatal.
func CalculateIntraOffsets(coords []Coordinate, superIntra *SuperIntra, chrom string, offsets *[]int) {
	for _, in := range superIntra.Intras {
		idx2, ok2 := lookupCoordinate(coords, chrom, in.ReadEnd2)
		idx1, ok1 := lookupCoordinate(coords, chrom, in.ReadStart1)
		if !ok1 || !ok2 {
			continue
		}
		*offsets = append(*offsets, idx2-idx1+1)
	}
}

// isValidInter reports whether every one of an Inter's four read endpoints
// resolves in coords, the precondition for including it in an inter-offset
// computation.
func isValidInter(coords []Coordinate, chrom1, chrom2 string, in Inter) bool {
	if _, ok := lookupCoordinate(coords, chrom1, in.ReadStart1); !ok {
		return false
	}
	if _, ok := lookupCoordinate(coords, chrom1, in.ReadEnd1); !ok {
		return false
	}
	if _, ok := lookupCoordinate(coords, chrom2, in.ReadStart2); !ok {
		return false
	}
	if _, ok := lookupCoordinate(coords, chrom2, in.ReadEnd2); !ok {
		return false
	}
	return true
}

// CalculateInterOffsets appends one entry per exonic-exonic, fully-resolved
// Inter in sInter to offsets, in direction isAB.
func CalculateInterOffsets(coords []Coordinate, t1, t2 *annotation.Transcript, sInter *SuperInter, isAB bool, offsets *[]int) {
	for _, in := range sInter.Inters {
		if in.PairType != PairTypeExonicExonic || !isValidInter(coords, t1.Chrom, t2.Chrom, in) {
			continue
		}
		if isAB {
			idx2, ok2 := lookupCoordinate(coords, t2.Chrom, in.ReadEnd2)
			idx1, ok1 := lookupCoordinate(coords, t1.Chrom, in.ReadStart1)
			if !ok1 || !ok2 {
				continue
			}
			*offsets = append(*offsets, idx2-idx1+1)
		} else {
			idx1, ok1 := lookupCoordinate(coords, t1.Chrom, in.ReadEnd1)
			idx2, ok2 := lookupCoordinate(coords, t2.Chrom, in.ReadStart2)
			if !ok1 || !ok2 {
				continue
			}
			*offsets = append(*offsets, idx1-idx2+1)
		}
	}
}

// calculateMean returns the arithmetic mean of values.
func calculateMean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// calculateMedian returns the lower median of values after a descending
// sort: index len(values)/2. This exact tie-break (rather than the
// conventional average-of-two-middles for even-length inputs) is preserved
// verbatim from the reference implementation for reproducibility.
func calculateMedian(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return float64(sorted[len(sorted)/2])
}

// CompareDistributions estimates a one-sided bootstrap p-value: one minus
// the fraction of the iterations trials (each drawing len(interOffsets)
// samples from intraOffsets with replacement) whose mean falls below
// interOffsets' median.
func CompareDistributions(intraOffsets, interOffsets []int, iterations int, rng *rand.Rand) float64 {
	medianInter := calculateMedian(interOffsets)
	sample := make([]int, len(interOffsets))
	below := 0
	for i := 0; i < iterations; i++ {
		for j := range sample {
			sample[j] = intraOffsets[rng.Intn(len(intraOffsets))]
		}
		if medianInter > calculateMean(sample) {
			below++
		}
	}
	return 1 - float64(below)/float64(iterations)
}
