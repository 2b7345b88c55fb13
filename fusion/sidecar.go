package fusion

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"

	"github.com/grailbio/base/errors"
)

// WriteIntraOffsetsSidecar writes one integer per line of offsets to
// prefix+".intraOffsets", then compresses it in place by shelling out to the
// system gzip utility — the one place this module reaches for
// an external binary instead of a library: the sidecar is defined as
// whatever "gzip <file>" produces, not as a re-implementation of it.
func WriteIntraOffsetsSidecar(prefix string, offsets []int) error {
	path := prefix + ".intraOffsets"
	f, err := os.Create(path)
	if err != nil {
		return errors.E("fusion: creating intra-offsets sidecar", err)
	}

	w := bufio.NewWriter(f)
	for _, v := range offsets {
		if _, err := fmt.Fprintln(w, v); err != nil {
			f.Close()
			return errors.E("fusion: writing intra-offsets sidecar", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.E("fusion: flushing intra-offsets sidecar", err)
	}
	if err := f.Close(); err != nil {
		return errors.E("fusion: closing intra-offsets sidecar", err)
	}

	if err := exec.Command("gzip", "-f", path).Run(); err != nil {
		return errors.E("fusion: gzip intra-offsets sidecar", err)
	}
	return nil
}
