package fusion

import (
	"sort"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/fusionseq/annotation"
)

// superIntraKey lets *SuperIntra be looked up in an llrb.Tree by transcript
// identity, the same upsert-on-miss shape bampair's shard index uses to map
// a sortable key to a pointer-to-aggregate.
type superIntraKey struct {
	transcript annotation.TranscriptID
	entry      *SuperIntra
}

func (k superIntraKey) Compare(c llrb.Comparable) int {
	return int(k.transcript) - int(c.(superIntraKey).transcript)
}

// Store accumulates evidence during ingest: Intra pairs grouped into
// SuperIntra by transcript, and Inter pairs grouped into SuperInter by
// ordered transcript pair.
type Store struct {
	byTranscript llrb.Tree
	superIntras  []*SuperIntra

	inters []Inter
}

// NewStore returns an empty evidence store.
func NewStore() *Store {
	return &Store{byTranscript: llrb.Tree{}}
}

// AddIntra records one same-transcript pair under its owning transcript,
// creating a new SuperIntra on first sight of that transcript.
func (s *Store) AddIntra(transcript annotation.TranscriptID, in Intra) {
	probe := superIntraKey{transcript: transcript}
	var si *SuperIntra
	if found := s.byTranscript.Get(probe); found != nil {
		si = found.(superIntraKey).entry
	} else {
		si = &SuperIntra{Transcript: transcript}
		s.byTranscript.Insert(superIntraKey{transcript: transcript, entry: si})
		s.superIntras = append(s.superIntras, si)
	}
	si.Intras = append(si.Intras, in)
}

// AddInter records one cross-transcript pair. Grouping into SuperInters
// happens in SuperInters, mirroring the reference implementation's two-pass
// structure (ingest first, group after EOF).
func (s *Store) AddInter(in Inter) {
	s.inters = append(s.inters, in)
}

// SuperIntras returns every SuperIntra, sorted ascending by transcript
// identity (the order the intra-offset pool is built in).
func (s *Store) SuperIntras() []*SuperIntra {
	sort.Slice(s.superIntras, func(i, j int) bool {
		return s.superIntras[i].Transcript < s.superIntras[j].Transcript
	})
	return s.superIntras
}

// SuperIntra returns the SuperIntra for transcript, or nil if it has none.
func (s *Store) SuperIntra(transcript annotation.TranscriptID) *SuperIntra {
	found := s.byTranscript.Get(superIntraKey{transcript: transcript})
	if found == nil {
		return nil
	}
	return found.(superIntraKey).entry
}

// NumInters returns the total number of Inter records added.
func (s *Store) NumInters() int { return len(s.inters) }

// SuperInters groups every recorded Inter by ordered (Transcript1,
// Transcript2) pair, then sorts the groups descending by inter count,
// ties broken by ascending (Transcript1, Transcript2).
func (s *Store) SuperInters() []*SuperInter {
	sorted := make([]Inter, len(s.inters))
	copy(sorted, s.inters)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Transcript1 != b.Transcript1 {
			return a.Transcript1 < b.Transcript1
		}
		return a.Transcript2 < b.Transcript2
	})

	var supers []*SuperInter
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j].Transcript1 == sorted[i].Transcript1 && sorted[j].Transcript2 == sorted[i].Transcript2 {
			j++
		}
		supers = append(supers, &SuperInter{
			Transcript1: sorted[i].Transcript1,
			Transcript2: sorted[i].Transcript2,
			Inters:      append([]Inter(nil), sorted[i:j]...),
		})
		i = j
	}
	sort.SliceStable(supers, func(i, j int) bool {
		return supers[i].NumInters() > supers[j].NumInters()
	})
	return supers
}
