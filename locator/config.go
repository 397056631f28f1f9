package locator

// PipelineConfig enumerates the tuning knobs consumed by the core, per
// spec.md section 6.
type PipelineConfig struct {
	RansacThreshold   float64 // meters; inlier distance cutoff
	MinLinesPerTarget int     // minimum inliers to accept a hypothesis and refine
	RansacIterations  int     // hypotheses tried per target
	RefinerMaxIters   int
	LMInitialLambda   float64
	GDLearningRate    float64
	Refiner           RefinerKind
	RNGSeed           *int64 // nil means non-deterministic seeding by the caller
}

// DefaultPipelineConfig returns the defaults observed in the source
// (spec.md section 6), with LM selected as the canonical refiner.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RansacThreshold:   10.0,
		MinLinesPerTarget: 3,
		RansacIterations:  100,
		RefinerMaxIters:   DefaultRefinerMaxIters,
		LMInitialLambda:   DefaultLMInitialLambda,
		GDLearningRate:    DefaultGDLearningRate,
		Refiner:           RefinerLM,
	}
}
