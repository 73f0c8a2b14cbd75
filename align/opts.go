package align

// Opts collects the tunable constants of the mapping pipeline. Centralizing
// them here (rather than scattering them as package-level constants) lets
// the CLI and config surface override defaults per run, the way
// fusion.Opts centralizes fusion-detection knobs.
type Opts struct {
	// MinSeedLength is the shortest prefix the Seed Finder will query the
	// index with.
	MinSeedLength int

	// MaxPosDiff is the maximum allowed drift in posDiff between
	// consecutive seeds of the same cluster window.
	MaxPosDiff int

	// MinInversionSize and MaxInversionSize bound the forward/reverse
	// strand distance that qualifies as an inversion candidate.
	MinInversionSize int
	MaxInversionSize int

	// MinTranslocationSize is the minimum same-strand distance that
	// qualifies as a translocation candidate.
	MinTranslocationSize int

	// MaxPairedDistance is the initial pairing-window bound, used until
	// enough paired observations have accumulated to replace it with a
	// live estimate (see Aggregate.AvgDist in package mapper).
	MaxPairedDistance int

	// ReadChunkSize is the number of reads a worker pulls per LibraryLock
	// acquisition; for paired input both mates of a pair count as reads.
	ReadChunkSize int
}

// DefaultOpts mirrors the numeric constants used throughout the original
// aligner's defaults.
var DefaultOpts = Opts{
	MinSeedLength:        20,
	MaxPosDiff:           15,
	MinInversionSize:     1000,
	MaxInversionSize:     10000000,
	MinTranslocationSize: 1000,
	MaxPairedDistance:    2000,
	ReadChunkSize:        10000,
}

// PairingWindow returns round(1.5 * avgDist), the live pairing bound. When
// avgDist is zero (no paired observations have accumulated yet) the initial
// MaxPairedDistance bound is used instead.
func (o Opts) PairingWindow(avgDist int64) int64 {
	if avgDist <= 0 {
		return int64(o.MaxPairedDistance)
	}
	return int64((3*avgDist + 1) / 2)
}
