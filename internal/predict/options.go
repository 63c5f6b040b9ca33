// Package predict infers candidate spidroin gene spans from terminal-domain
// alignment evidence and decides which inferred genes are trustworthy.
package predict

// Options holds the thresholds used during gene inference.
// Construct once and pass to NewPredictor; there is no package-level state.
type Options struct {
	// MinLength is the minimum accepted gene length in bp.
	MinLength int64
	// MaxLength is the maximum accepted gene length in bp.
	MaxLength int64
	// ExtensionLength is how far to extend past a single anchor when only
	// one terminus has evidence.
	ExtensionLength int64
	// PositiveThreshold filters alignments whose positive (similarity)
	// score is below this fraction.
	PositiveThreshold float64
}

// DefaultOptions returns the default inference thresholds.
func DefaultOptions() Options {
	return Options{
		MinLength:         1000,
		MaxLength:         100000,
		ExtensionLength:   10000,
		PositiveThreshold: 0.75,
	}
}
