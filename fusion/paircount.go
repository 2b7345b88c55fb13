package fusion

import "sort"

// PairCount is one (pairType, number1, number2) triple and its accumulated,
// split-read-weighted count. It is scoped to a single SuperInter evaluation.
type PairCount struct {
	PairType         int
	Number1, Number2 int
	Count            float64
}

// countPairs sorts a working copy of inters by (pairType, number1, number2)
// and collapses each run of equal triples into one PairCount, summing
// weights.
//
// The reference implementation's inner collapse loop re-adds the run's
// *first* element's weight for every subsequent match instead of each
// matching element's own weight (a copy-paste artifact: getAddingNumber was
// called on the wrong variable). This port sums the weight of the element
// actually being folded in, which is what "split-read weighting" means —
// see paircount_test.go for a regression case where this changes the count.
func countPairs(inters []Inter) []PairCount {
	sorted := make([]Inter, len(inters))
	copy(sorted, inters)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PairType != b.PairType {
			return a.PairType < b.PairType
		}
		if a.Number1 != b.Number1 {
			return a.Number1 < b.Number1
		}
		return a.Number2 < b.Number2
	})

	var counts []PairCount
	i := 0
	for i < len(sorted) {
		pc := PairCount{PairType: sorted[i].PairType, Number1: sorted[i].Number1, Number2: sorted[i].Number2}
		pc.Count += sorted[i].Weight
		j := i + 1
		for j < len(sorted) && sorted[j].PairType == sorted[i].PairType &&
			sorted[j].Number1 == sorted[i].Number1 && sorted[j].Number2 == sorted[i].Number2 {
			pc.Count += sorted[j].Weight
			j++
		}
		counts = append(counts, pc)
		i = j
	}
	return counts
}

// isValidExonExonPair reports whether inter's (pairType, number1, number2)
// triple is exonic-exonic and its aggregated PairCount exceeds 1 — the gate
// for inclusion in the fusion envelope.
func isValidExonExonPair(inter Inter, counts []PairCount) bool {
	if inter.PairType != PairTypeExonicExonic {
		return false
	}
	for _, pc := range counts {
		if pc.PairType == PairTypeExonicExonic && pc.Number1 == inter.Number1 && pc.Number2 == inter.Number2 {
			return pc.Count > 1
		}
	}
	return false
}

// isValidExon reports whether some exonic-exonic PairCount has numberX == k
// (X = 1 if isFirst, else 2) with count > 2. This threshold is
// intentionally stricter than isValidExonExonPair's count > 1 — the
// asymmetry is preserved from the reference implementation as-is; it gates
// whether an individual exon is restrictive enough to appear in a
// coordinate map, versus whether a single pair is solid enough to seed or
// extend the fusion envelope.
func isValidExon(counts []PairCount, k int, isFirst bool) bool {
	for _, pc := range counts {
		if pc.PairType != PairTypeExonicExonic {
			continue
		}
		number := pc.Number2
		if isFirst {
			number = pc.Number1
		}
		if number == k && pc.Count > 2 {
			return true
		}
	}
	return false
}
