// Package config loads the fusion-detection core's configuration: a
// key/value file whose path is given by the FUSIONSEQ_CONFPATH environment
// variable.
package config

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// Environment variable naming the config file path.
const PathEnvVar = "FUSIONSEQ_CONFPATH"

// Keys the core consumes. Downstream filters consume further keys this
// package does not interpret but still preserves in Raw.
const (
	KeyAnnotationDir                     = "ANNOTATION_DIR"
	KeyTranscriptCompositeModelFilename  = "TRANSCRIPT_COMPOSITE_MODEL_FILENAME"
)

// Config is the parsed key/value configuration.
type Config struct {
	AnnotationDir                    string
	TranscriptCompositeModelFilename string

	// Raw holds every key/value pair found in the file, including keys the
	// core doesn't interpret itself (consumed by out-of-core filters).
	Raw map[string]string
}

// Error reports a missing environment variable, an unreadable config file,
// or a config file missing a key the core requires.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return errors.E(e.Err, e.Msg).Error()
	}
	return "config: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads FUSIONSEQ_CONFPATH and parses it. It fails with *Error if the
// environment variable is unset, the file cannot be opened or read, or
// either of ANNOTATION_DIR / TRANSCRIPT_COMPOSITE_MODEL_FILENAME is absent.
func Load(ctx context.Context) (*Config, error) {
	path := os.Getenv(PathEnvVar)
	if path == "" {
		return nil, &Error{Msg: PathEnvVar + " is not set"}
	}
	return LoadPath(ctx, path)
}

// LoadPath is Load with an explicit path, bypassing the environment
// variable; used directly by tests.
func LoadPath(ctx context.Context, path string) (*Config, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, &Error{Msg: "opening " + path, Err: err}
	}
	defer func() {
		_ = f.Close(ctx)
	}()

	reader := io.Reader(f.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, gerr := gzip.NewReader(reader)
		if gerr != nil {
			return nil, &Error{Msg: "gzip " + path, Err: gerr}
		}
		defer gz.Close()
		reader = gz
	}

	raw, err := parse(reader)
	if err != nil {
		return nil, &Error{Msg: "parsing " + path, Err: err}
	}

	cfg := &Config{Raw: raw}
	var missing []string
	var ok bool
	if cfg.AnnotationDir, ok = raw[KeyAnnotationDir]; !ok {
		missing = append(missing, KeyAnnotationDir)
	}
	if cfg.TranscriptCompositeModelFilename, ok = raw[KeyTranscriptCompositeModelFilename]; !ok {
		missing = append(missing, KeyTranscriptCompositeModelFilename)
	}
	if len(missing) > 0 {
		return nil, &Error{Msg: "missing required key(s): " + strings.Join(missing, ", ")}
	}
	return cfg, nil
}

// parse reads "KEY value" or "KEY=value" lines (leading/trailing whitespace
// trimmed, blank lines and lines starting with '#' ignored).
func parse(r io.Reader) (map[string]string, error) {
	raw := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.IndexAny(line, "= \t")
		if sep < 0 {
			continue
		}
		key := line[:sep]
		value := strings.TrimSpace(strings.TrimLeft(line[sep:], "= \t"))
		raw[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}
