package gfr

import (
	"bufio"
	"strings"
	"testing"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func sampleEntry() *Entry {
	return &Entry{
		NumInter:            3,
		InterMeanAB:         12.5,
		InterMeanBA:         -12.5,
		PValueAB:            0.00123,
		PValueBA:            0.98765,
		NumIntra1:           4,
		NumIntra2:           7,
		FusionType:          "trans",
		NameTranscript1:     "TX1",
		NameTranscript2:     "TX2",
		NumExonsTranscript1: 2,
		NumExonsTranscript2: 1,
		ExonCoordinatesTranscript1: []ExonCoordinate{
			{Start: 100, End: 200},
			{Start: 300, End: 400},
		},
		ExonCoordinatesTranscript2: []ExonCoordinate{
			{Start: 600, End: 900},
		},
		ChromosomeTranscript1: "chr1",
		ChromosomeTranscript2: "chr2",
		StrandTranscript1:     '+',
		StrandTranscript2:     '-',
		StartTranscript1:      100,
		StartTranscript2:      600,
		EndTranscript1:        400,
		EndTranscript2:        900,
		InterReads: []InterRead{
			{PairType: PairTypeExonicExonic, Number1: 1, Number2: 1,
				ReadStart1: 120, ReadEnd1: 140, ReadStart2: 620, ReadEnd2: 640,
				Read1: "ACGT", Read2: "TTTT"},
			{PairType: PairTypeExonicExonic, Number1: 2, Number2: 1,
				ReadStart1: 320, ReadEnd1: 340, ReadStart2: 650, ReadEnd2: 670,
				Read1: "GGGG", Read2: "CCCC"},
		},
		ID: "prefix_00001",
	}
}

func writeLine(t *testing.T, e *Entry) string {
	t.Helper()
	var buf strings.Builder
	w := tsv.NewWriter(bufio.NewWriter(&buf))
	require.NoError(t, WriteEntry(w, e))
	require.NoError(t, w.Flush())
	return strings.TrimRight(buf.String(), "\n")
}

func TestWriteEntryColumnOrder(t *testing.T) {
	line := writeLine(t, sampleEntry())
	cols := strings.Split(line, "\t")
	expect.EQ(t, len(cols), len(Columns))
	expect.EQ(t, cols[0], "3")
	expect.EQ(t, cols[1], "12.50")
	expect.EQ(t, cols[3], "0.00123")
	expect.EQ(t, cols[7], "trans")
	expect.EQ(t, cols[10], "100,200|300,400")
	expect.EQ(t, cols[22], "1,1,1,120,140,620,640,0|1,2,1,320,340,650,670,0")
	expect.EQ(t, cols[23], "prefix_00001")
	expect.EQ(t, cols[24], "ACGT|GGGG")
	expect.EQ(t, cols[25], "TTTT|CCCC")
}

func TestWriteHeaderMatchesColumns(t *testing.T) {
	var buf strings.Builder
	w := tsv.NewWriter(bufio.NewWriter(&buf))
	require.NoError(t, WriteHeader(w))
	require.NoError(t, w.Flush())
	expect.EQ(t, strings.TrimRight(buf.String(), "\n"), strings.Join(Columns, "\t"))
}

func TestParseEntryRoundTrips(t *testing.T) {
	want := sampleEntry()
	line := writeLine(t, want)

	got, err := ParseEntry(line)
	require.NoError(t, err)
	expect.EQ(t, got.NumInter, want.NumInter)
	expect.EQ(t, got.InterMeanAB, want.InterMeanAB)
	expect.EQ(t, got.InterMeanBA, want.InterMeanBA)
	expect.EQ(t, got.PValueAB, want.PValueAB)
	expect.EQ(t, got.PValueBA, want.PValueBA)
	expect.EQ(t, got.NumIntra1, want.NumIntra1)
	expect.EQ(t, got.NumIntra2, want.NumIntra2)
	expect.EQ(t, got.FusionType, want.FusionType)
	expect.EQ(t, got.NameTranscript1, want.NameTranscript1)
	expect.EQ(t, got.NameTranscript2, want.NameTranscript2)
	expect.EQ(t, len(got.ExonCoordinatesTranscript1), len(want.ExonCoordinatesTranscript1))
	expect.EQ(t, got.ExonCoordinatesTranscript1[1], want.ExonCoordinatesTranscript1[1])
	expect.EQ(t, got.ChromosomeTranscript1, want.ChromosomeTranscript1)
	expect.EQ(t, got.StrandTranscript1, want.StrandTranscript1)
	expect.EQ(t, got.StrandTranscript2, want.StrandTranscript2)
	expect.EQ(t, got.ID, want.ID)
	require.Len(t, got.InterReads, len(want.InterReads))
	for i := range want.InterReads {
		expect.EQ(t, got.InterReads[i].PairType, want.InterReads[i].PairType)
		expect.EQ(t, got.InterReads[i].Number1, want.InterReads[i].Number1)
		expect.EQ(t, got.InterReads[i].Number2, want.InterReads[i].Number2)
		expect.EQ(t, got.InterReads[i].ReadStart1, want.InterReads[i].ReadStart1)
		expect.EQ(t, got.InterReads[i].ReadEnd2, want.InterReads[i].ReadEnd2)
		expect.EQ(t, got.InterReads[i].Read1, want.InterReads[i].Read1)
		expect.EQ(t, got.InterReads[i].Read2, want.InterReads[i].Read2)
		expect.EQ(t, got.InterReads[i].Flag, want.InterReads[i].Flag)
	}
}

func TestParseEntryPreservesFlagSetByDownstreamFilter(t *testing.T) {
	e := sampleEntry()
	e.InterReads[0].Flag = true

	line := writeLine(t, e)
	got, err := ParseEntry(line)
	require.NoError(t, err)
	require.Len(t, got.InterReads, 2)
	expect.EQ(t, got.InterReads[0].Flag, true)
	expect.EQ(t, got.InterReads[1].Flag, false)
}

func TestParseEntryNoInterReads(t *testing.T) {
	e := sampleEntry()
	e.InterReads = nil
	line := writeLine(t, e)

	got, err := ParseEntry(line)
	require.NoError(t, err)
	expect.EQ(t, len(got.InterReads), 0)
}

func TestParseEntryRejectsWrongColumnCount(t *testing.T) {
	_, err := ParseEntry("1\t2\t3")
	require.Error(t, err)
}

func TestReadAllParsesMultipleLines(t *testing.T) {
	e1, e2 := sampleEntry(), sampleEntry()
	e2.ID = "prefix_00002"
	e2.InterReads = nil
	body := writeLine(t, e1) + "\n" + writeLine(t, e2) + "\n"

	entries, err := ReadAll(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	expect.EQ(t, entries[0].ID, "prefix_00001")
	expect.EQ(t, entries[1].ID, "prefix_00002")
}
