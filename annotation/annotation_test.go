package annotation

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func writeTempAnnotation(t *testing.T, body string) string {
	t.Helper()
	f, err := ioutil.TempFile("", "annotation-*.txt")
	require.NoError(t, err)
	_, err = f.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

func TestLoadAndOverlap(t *testing.T) {
	ctx := context.Background()
	path := writeTempAnnotation(t,
		"TX1\tchr1\t+\t100\t500\t2\t100\t200\t400\t500\n"+
			"TX2\tchr1\t+\t600\t900\t1\t600\t900\n"+
			"TX3\tchr2\t-\t100\t200\t1\t100\t200\n")

	idx, err := Load(ctx, path)
	assert.NoError(t, err)
	expect.EQ(t, len(idx.Transcripts()), 3)

	hits := idx.OverlappingTranscripts("chr1", 150, 160)
	expect.EQ(t, len(hits), 1)
	expect.EQ(t, hits[0].Name, "TX1")

	expect.EQ(t, len(idx.OverlappingTranscripts("chr1", 450, 650)), 2)
	expect.EQ(t, len(idx.OverlappingTranscripts("chr1", 10, 20)), 0)
	expect.EQ(t, len(idx.OverlappingTranscripts("chrX", 1, 1000)), 0)
}

func TestLoadRejectsMalformedStrand(t *testing.T) {
	ctx := context.Background()
	path := writeTempAnnotation(t, "TX1\tchr1\t?\t100\t500\t0\n")
	_, err := Load(ctx, path)
	assert.Error(t, err, "malformed strand should fail to load")
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	expect.EQ(t, lerr.Line, 1)
}

func TestLoadRejectsOverlappingExons(t *testing.T) {
	ctx := context.Background()
	path := writeTempAnnotation(t, "TX1\tchr1\t+\t100\t500\t2\t100\t300\t250\t500\n")
	_, err := Load(ctx, path)
	assert.Error(t, err, "exon 2 overlaps exon 1")
}

func TestLoadRejectsFieldCountMismatch(t *testing.T) {
	ctx := context.Background()
	path := writeTempAnnotation(t, "TX1\tchr1\t+\t100\t500\t2\t100\t200\n")
	_, err := Load(ctx, path)
	assert.Error(t, err, "numSubIntervals=2 requires 4 more fields")
}
