package fusion

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestCountPairsSumsEachElementsOwnWeight(t *testing.T) {
	// Three Inters collapse to one triple with distinct weights. A buggy
	// aggregator that re-adds the run's first weight for every subsequent
	// match would report 1.0+1.0+1.0=3.0; summing each element's own
	// weight gives 1.0+0.5+0.25=1.75.
	inters := []Inter{
		{PairType: PairTypeExonicExonic, Number1: 2, Number2: 3, Weight: 1.0},
		{PairType: PairTypeExonicExonic, Number1: 2, Number2: 3, Weight: 0.5},
		{PairType: PairTypeExonicExonic, Number1: 2, Number2: 3, Weight: 0.25},
	}
	counts := countPairs(inters)
	expect.EQ(t, len(counts), 1)
	expect.EQ(t, counts[0].Count, 1.75)
}

func TestCountPairsKeepsTriplesSeparate(t *testing.T) {
	inters := []Inter{
		{PairType: PairTypeExonicExonic, Number1: 1, Number2: 1, Weight: 1.0},
		{PairType: PairTypeExonicIntronic, Number1: 1, Number2: 2, Weight: 0.5},
		{PairType: PairTypeExonicExonic, Number1: 1, Number2: 1, Weight: 1.0},
	}
	counts := countPairs(inters)
	expect.EQ(t, len(counts), 2)
	var exonicExonicCount, exonicIntronicCount float64
	for _, pc := range counts {
		switch pc.PairType {
		case PairTypeExonicExonic:
			exonicExonicCount = pc.Count
		case PairTypeExonicIntronic:
			exonicIntronicCount = pc.Count
		}
	}
	expect.EQ(t, exonicExonicCount, 2.0)
	expect.EQ(t, exonicIntronicCount, 0.5)
}

func TestIsValidExonExonPairRequiresCountAboveOne(t *testing.T) {
	counts := []PairCount{{PairType: PairTypeExonicExonic, Number1: 4, Number2: 5, Count: 1.0}}
	expect.EQ(t, isValidExonExonPair(Inter{PairType: PairTypeExonicExonic, Number1: 4, Number2: 5}, counts), false)

	counts[0].Count = 1.5
	expect.EQ(t, isValidExonExonPair(Inter{PairType: PairTypeExonicExonic, Number1: 4, Number2: 5}, counts), true)
}

func TestIsValidExonRequiresCountAboveTwo(t *testing.T) {
	counts := []PairCount{{PairType: PairTypeExonicExonic, Number1: 4, Number2: 5, Count: 2.0}}
	expect.EQ(t, isValidExon(counts, 4, true), false)

	counts[0].Count = 2.5
	expect.EQ(t, isValidExon(counts, 4, true), true)
	expect.EQ(t, isValidExon(counts, 5, true), false)
	expect.EQ(t, isValidExon(counts, 5, false), true)
}
