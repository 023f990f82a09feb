package pln

// Config carries PLN's tunables.
type Config struct {
	MinConfidence           float64
	StrengthThreshold       float64
	MaxInferenceDepth       int // reserved, unused by the minimum rule set
	RevisionInflationFactor float64
	DefaultStrength         float64
	DefaultConfidence       float64

	// UseRevisionOnConflict switches the conflict-resolution strategy on
	// structural re-add from overwrite (false, the default) to applying
	// the Revision formula against the prior value instead (true).
	UseRevisionOnConflict bool
}

// DefaultConfig returns a reasonable set of default tunables.
func DefaultConfig() Config {
	return Config{
		MinConfidence:           0.01,
		StrengthThreshold:       0.1,
		MaxInferenceDepth:       0,
		RevisionInflationFactor: 1.2,
		DefaultStrength:         0.5,
		DefaultConfidence:       0.0,
		UseRevisionOnConflict:   false,
	}
}
