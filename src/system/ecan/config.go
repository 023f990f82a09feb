package ecan

// Config carries ECAN's tunables.
type Config struct {
	MaxAF                int64
	MinSTI               int64
	MaxSTI               int64
	RentAmount           int64
	DecayRate            float64
	DiffusionRate        float64
	SpreadProbability    float64
	HebbianLearningRate  float64
	ForgetProbability    float64
	InitialSTIPool       int64
	InitialLTIPool       int64
}

// DefaultConfig returns a reasonable set of default tunables.
func DefaultConfig() Config {
	return Config{
		MaxAF:               100,
		MinSTI:              -1000,
		MaxSTI:              1000,
		RentAmount:          1,
		DecayRate:           0.01,
		DiffusionRate:       0.2,
		SpreadProbability:   0.1,
		HebbianLearningRate: 0.1,
		ForgetProbability:   0.1,
		InitialSTIPool:      10000,
		InitialLTIPool:      10000,
	}
}
