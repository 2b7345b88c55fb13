package fusion

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/grailbio/fusionseq/annotation"
	"github.com/stretchr/testify/require"
)

// newTestIndex returns a 3-transcript annotation index shared by this
// package's tests:
//
//	TX1 chr1 + 100-500, exons (100-200) (300-400)   -> TranscriptID 0
//	TX2 chr1 + 600-900, exons (600-700) (800-900)   -> TranscriptID 1
//	TX3 chr2 - 100-300, exon  (100-300)             -> TranscriptID 2
func newTestIndex(t *testing.T) *annotation.Index {
	t.Helper()
	body := "TX1\tchr1\t+\t100\t500\t2\t100\t200\t300\t400\n" +
		"TX2\tchr1\t+\t600\t900\t2\t600\t700\t800\t900\n" +
		"TX3\tchr2\t-\t100\t300\t1\t100\t300\n"
	f, err := ioutil.TempFile("", "fusion-annotation-*.txt")
	require.NoError(t, err)
	_, err = f.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	t.Cleanup(func() { os.Remove(f.Name()) })

	idx, err := annotation.Load(context.Background(), f.Name())
	require.NoError(t, err)
	return idx
}
