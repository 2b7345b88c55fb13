// Command fusion-detect reads an MRF-aligned paired-end read stream on
// stdin and writes a Gene Fusion Report (GFR) table to stdout, plus an
// intra-offset sidecar file next to the given output prefix.
//
// Usage:
//
//	fusion-detect <prefix> <minNumberOfPairedEndReads>
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/fusionseq/annotation"
	"github.com/grailbio/fusionseq/config"
	"github.com/grailbio/fusionseq/fusion"
	"github.com/grailbio/fusionseq/gfr"
	"github.com/grailbio/fusionseq/mrf"
)

var seedFlag = flag.Int64("seed", 0, "seed for the Monte Carlo scorer's PRNG; 0 seeds from the wall clock")

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <prefix> <minNumberOfPairedEndReads>

Reads MRF records from stdin, writes a GFR table to stdout, and writes
<prefix>.intraOffsets.gz alongside the table.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	cleanup := grail.Init()
	defer cleanup()

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})

	if flag.NArg() != 2 {
		log.Fatal("exactly two arguments (<prefix> <minNumberOfPairedEndReads>) are required")
	}
	prefix := flag.Arg(0)
	minPairedEndReads, err := strconv.Atoi(flag.Arg(1))
	if err != nil || minPairedEndReads < 0 {
		log.Fatalf("minNumberOfPairedEndReads must be a non-negative integer, got %q", flag.Arg(1))
	}

	ctx := vcontext.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	index, err := annotation.Load(ctx, filepath.Join(cfg.AnnotationDir, cfg.TranscriptCompositeModelFilename))
	if err != nil {
		log.Fatal(err)
	}

	store := fusion.NewStore()
	ingester := fusion.NewIngester(index, store)
	if err := ingester.Ingest(mrf.NewReader(os.Stdin)); err != nil {
		log.Fatal(errors.E("fusion-detect: ingest failed", err))
	}
	stats := ingester.Stats()

	var intraOffsets []int
	for _, superIntra := range store.SuperIntras() {
		t := index.Transcript(superIntra.Transcript)
		coords := fusion.ConvertIntraCoordinates(t)
		fusion.CalculateIntraOffsets(coords, superIntra, t.Chrom, &intraOffsets)
	}
	stats.NumSuperIntra = len(store.SuperIntras())
	stats.NumSuperInter = len(store.SuperInters())

	opts := fusion.DefaultOpts
	opts.Prefix = prefix
	opts.MinPairedEndReads = minPairedEndReads
	opts.Seed = *seedFlag

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	entries := fusion.BuildEntries(index, store, intraOffsets, opts, rng)
	stats.NumGfrEntries = len(entries)

	w := tsv.NewWriter(bufio.NewWriter(os.Stdout))
	if err := gfr.WriteHeader(w); err != nil {
		log.Fatal(errors.E("fusion-detect: writing GFR header", err))
	}
	for _, e := range entries {
		if err := gfr.WriteEntry(w, e); err != nil {
			log.Fatal(errors.E("fusion-detect: writing GFR entry", err))
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(errors.E("fusion-detect: flushing GFR output", err))
	}

	if err := fusion.WriteIntraOffsetsSidecar(prefix, intraOffsets); err != nil {
		log.Fatal(err)
	}

	argv0 := os.Args[0]
	log.Printf("%s_numMrfLines: %d", argv0, stats.NumMrfLines)
	log.Printf("%s_numIntra: %d", argv0, stats.NumIntra)
	log.Printf("%s_numInter: %d", argv0, stats.NumInter)
	log.Printf("%s_numSuperIntra: %d", argv0, stats.NumSuperIntra)
	log.Printf("%s_numSuperInter: %d", argv0, stats.NumSuperInter)
	log.Printf("%s_numGfrEntries: %d", argv0, stats.NumGfrEntries)
}
