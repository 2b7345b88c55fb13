package fusion

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/grailbio/fusionseq/annotation"
	"github.com/grailbio/fusionseq/gfr"
)

// sentinelMeanOrPValue marks a candidate whose envelope could not be
// computed (no valid exonic-exonic pair): none of interMeanAB/interMeanBA/
// pValueAB/pValueBA can be derived, so all four carry this value.
const sentinelMeanOrPValue = -1.0

// BuildEntries walks store's SuperInters in descending inter-count order
// (the order SuperInters already returns them in) and emits one gfr.Entry
// per SuperInter whose NumInters is at least opts.MinPairedEndReads.
// Iteration stops at the first SuperInter falling below the threshold, since
// the list is sorted descending.
//
// intraOffsets is the single pool of intra-transcript offsets accumulated
// over every SuperIntra in the store: it is the one bootstrap reference
// distribution shared by every candidate's AB and BA p-value computation,
// not a per-transcript distribution. rng drives CompareDistributions'
// resampling.
func BuildEntries(index *annotation.Index, store *Store, intraOffsets []int, opts Opts, rng *rand.Rand) []*gfr.Entry {
	var entries []*gfr.Entry
	count := 0
	for _, sInter := range store.SuperInters() {
		if sInter.NumInters() < opts.MinPairedEndReads {
			break
		}
		count++
		entries = append(entries, buildEntry(index, store, sInter, intraOffsets, opts, rng, count))
	}
	return entries
}

func buildEntry(index *annotation.Index, store *Store, sInter *SuperInter, intraOffsets []int, opts Opts, rng *rand.Rand, ordinal int) *gfr.Entry {
	t1 := index.Transcript(sInter.Transcript1)
	t2 := index.Transcript(sInter.Transcript2)

	meanAB, meanBA := sentinelMeanOrPValue, sentinelMeanOrPValue
	pAB, pBA := sentinelMeanOrPValue, sentinelMeanOrPValue

	if coordsAB, ok := ConvertInterCoordinates(t1, t2, sInter, true); ok {
		coordsBA, _ := ConvertInterCoordinates(t1, t2, sInter, false)

		var offsetsAB, offsetsBA []int
		CalculateInterOffsets(coordsAB, t1, t2, sInter, true, &offsetsAB)
		CalculateInterOffsets(coordsBA, t1, t2, sInter, false, &offsetsBA)

		if len(offsetsAB) > 0 && len(intraOffsets) > 0 {
			meanAB = calculateMean(offsetsAB)
			pAB = CompareDistributions(intraOffsets, offsetsAB, opts.SamplingIterations, rng)
		}
		if len(offsetsBA) > 0 && len(intraOffsets) > 0 {
			meanBA = calculateMean(offsetsBA)
			pBA = CompareDistributions(intraOffsets, offsetsBA, opts.SamplingIterations, rng)
		}
	}

	numIntra1, numIntra2 := 0, 0
	if si := store.SuperIntra(sInter.Transcript1); si != nil {
		numIntra1 = int(math.Round(si.NumIntras()))
	}
	if si := store.SuperIntra(sInter.Transcript2); si != nil {
		numIntra2 = int(math.Round(si.NumIntras()))
	}

	fusionType := "trans"
	if t1.Chrom == t2.Chrom {
		fusionType = "cis"
	}

	return &gfr.Entry{
		NumInter:                   sInter.NumInters(),
		InterMeanAB:                meanAB,
		InterMeanBA:                meanBA,
		PValueAB:                   pAB,
		PValueBA:                   pBA,
		NumIntra1:                  numIntra1,
		NumIntra2:                  numIntra2,
		FusionType:                 fusionType,
		NameTranscript1:            t1.Name,
		NameTranscript2:            t2.Name,
		NumExonsTranscript1:        len(t1.Exons),
		NumExonsTranscript2:        len(t2.Exons),
		ExonCoordinatesTranscript1: exonCoordinates(t1),
		ExonCoordinatesTranscript2: exonCoordinates(t2),
		ChromosomeTranscript1:      t1.Chrom,
		ChromosomeTranscript2:      t2.Chrom,
		StrandTranscript1:          t1.Strand,
		StrandTranscript2:          t2.Strand,
		StartTranscript1:           t1.Start,
		StartTranscript2:           t2.Start,
		EndTranscript1:             t1.End,
		EndTranscript2:             t2.End,
		InterReads:                 interReads(sInter),
		ID:                         fmt.Sprintf("%s_%05d", opts.Prefix, ordinal),
	}
}

func exonCoordinates(t *annotation.Transcript) []gfr.ExonCoordinate {
	coords := make([]gfr.ExonCoordinate, len(t.Exons))
	for i, exon := range t.Exons {
		coords[i] = gfr.ExonCoordinate{Start: exon.Start, End: exon.End}
	}
	return coords
}

func interReads(sInter *SuperInter) []gfr.InterRead {
	reads := make([]gfr.InterRead, len(sInter.Inters))
	for i, in := range sInter.Inters {
		reads[i] = gfr.InterRead{
			PairType:   in.PairType,
			Number1:    in.Number1,
			Number2:    in.Number2,
			ReadStart1: in.ReadStart1,
			ReadEnd1:   in.ReadEnd1,
			ReadStart2: in.ReadStart2,
			ReadEnd2:   in.ReadEnd2,
			Read1:      in.Read1,
			Read2:      in.Read2,
		}
	}
	return reads
}
