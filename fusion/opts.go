package fusion

// Opts configures one run of the fusion-detection engine.
type Opts struct {
	// Prefix is prepended to every generated candidate id ("<Prefix>_%05d")
	// and to the intra-offsets sidecar file name.
	Prefix string

	// MinPairedEndReads is the minimum inter-transcript pair count a
	// SuperInter must reach before a GfrEntry is emitted for it.
	MinPairedEndReads int

	// SamplingIterations is the number of Monte Carlo bootstrap draws used
	// by the scorer to estimate each candidate's p-value.
	SamplingIterations int

	// Seed initializes the process-wide PRNG used by the Monte Carlo
	// scorer. Zero means seed from the wall clock (the default, matching
	// the reference implementation); a non-zero value makes a run
	// reproducible.
	Seed int64
}

// DefaultOpts sets the default values of Opts other than Prefix, which has
// no sensible default and must always be supplied by the caller.
var DefaultOpts = Opts{
	SamplingIterations: 100000,
	Seed:               0,
}
