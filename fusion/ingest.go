package fusion

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/fusionseq/annotation"
	"github.com/grailbio/fusionseq/mrf"
)

// EvidenceIntegrityError reports a read pair whose sequence or block span
// is degenerate (empty sequence or zero-length/inverted span) at the point
// it would otherwise enter the evidence store.
type EvidenceIntegrityError struct {
	Reason string
}

func (e *EvidenceIntegrityError) Error() string {
	return errors.E("fusion: evidence integrity violation", e.Reason).Error()
}

// Ingester performs the single pass over the MRF stream: per entry, cross
// every block of read1 against every block of read2, resolve each block's
// unique overlapping transcript (if any), classify, and route the result
// into Intra or Inter evidence.
type Ingester struct {
	index *annotation.Index
	store *Store
	stats Stats
}

// NewIngester returns an Ingester that resolves overlaps against index and
// accumulates evidence into store.
func NewIngester(index *annotation.Index, store *Store) *Ingester {
	return &Ingester{index: index, store: store}
}

// Stats returns the running ingest counters.
func (ig *Ingester) Stats() Stats { return ig.stats }

// Ingest consumes every entry from r until EOF, returning a fatal error on
// a malformed record or an unclassifiable/degenerate pair.
func (ig *Ingester) Ingest(r *mrf.Reader) error {
	for {
		entry, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		ig.stats.NumMrfLines++
		if err := ig.ingestEntry(entry); err != nil {
			return err
		}
	}
}

func (ig *Ingester) ingestEntry(entry *mrf.Entry) error {
	for _, block1 := range entry.Read1.Blocks {
		for _, block2 := range entry.Read2.Blocks {
			if err := ig.ingestBlockPair(entry, block1, block2); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ig *Ingester) ingestBlockPair(entry *mrf.Entry, block1, block2 mrf.Block) error {
	hits1 := ig.index.OverlappingTranscripts(block1.TargetName, block1.TargetStart, block1.TargetEnd)
	hits2 := ig.index.OverlappingTranscripts(block2.TargetName, block2.TargetStart, block2.TargetEnd)
	if len(hits1) != 1 || len(hits2) != 1 {
		if len(hits1) > 1 || len(hits2) > 1 {
			ig.stats.NumMultiHitDropped++
		}
		return nil
	}
	t1, t2 := hits1[0], hits2[0]

	if err := checkIntegrity(block1, block2, entry); err != nil {
		return err
	}

	exon1 := ExonNumber(t1, block1.TargetStart, block1.TargetEnd)
	exon2 := ExonNumber(t2, block2.TargetStart, block2.TargetEnd)
	intron1 := IntronNumber(t1, block1.TargetStart, block1.TargetEnd)
	intron2 := IntronNumber(t2, block2.TargetStart, block2.TargetEnd)
	junction1 := JunctionNumber(t1, block1.TargetStart, block1.TargetEnd, exon1, intron1)
	junction2 := JunctionNumber(t2, block2.TargetStart, block2.TargetEnd, exon2, intron2)

	w := weight(
		isFullyAligned(block1.TargetStart, block1.TargetEnd, entry.Read1.Sequence),
		isFullyAligned(block2.TargetStart, block2.TargetEnd, entry.Read2.Sequence),
	)

	if t1.ID != t2.ID {
		pairType, number1, number2, err := AssignPairType(exon1, intron1, junction1, exon2, intron2, junction2)
		if err != nil {
			return err
		}
		ig.store.AddInter(Inter{
			Transcript1: t1.ID,
			Transcript2: t2.ID,
			ReadStart1:  block1.TargetStart,
			ReadEnd1:    block1.TargetEnd,
			ReadStart2:  block2.TargetStart,
			ReadEnd2:    block2.TargetEnd,
			Read1:       entry.Read1.Sequence,
			Read2:       entry.Read2.Sequence,
			PairType:    pairType,
			Number1:     number1,
			Number2:     number2,
			Weight:      w,
		})
		ig.stats.NumInter++
		return nil
	}

	// Same transcript: retained as Intra only when both ends are exonic;
	// otherwise silently dropped (e.g. intronic/junction same-transcript
	// reads carry no fusion-candidate signal).
	if exon1 > 0 && exon2 > 0 {
		ig.store.AddIntra(t1.ID, Intra{
			Transcript: t1.ID,
			ReadStart1: block1.TargetStart,
			ReadEnd1:   block1.TargetEnd,
			ReadStart2: block2.TargetStart,
			ReadEnd2:   block2.TargetEnd,
			Weight:     w,
		})
		ig.stats.NumIntra++
	}
	return nil
}

func checkIntegrity(block1, block2 mrf.Block, entry *mrf.Entry) error {
	if block1.TargetEnd < block1.TargetStart || block2.TargetEnd < block2.TargetStart {
		return &EvidenceIntegrityError{Reason: "zero-length or inverted block span"}
	}
	if entry.Read1.Sequence == "" || entry.Read2.Sequence == "" {
		return &EvidenceIntegrityError{Reason: "null read sequence"}
	}
	return nil
}
