package engine

import "github.com/agbru/grfc/internal/kernel"

// Config carries the engine's own tuning parameters for one Factor call —
// the subset of the application-level config.Config that actually reaches
// the geometric search. It intentionally omits
// every ambient CLI/server field (ports, color, JSON output, ...); callers
// build one from config.Config via config.Config.EngineConfig.
type Config struct {
	// Precision is the floor for digit count; effective P =
	// max(Precision, bits(N)*4 + 200).
	Precision uint
	// Samples is the maximum outer-loop iterations over k.
	Samples int
	// MSpan is the inner sweep range, m in [-MSpan, MSpan].
	MSpan int
	// Sigma is the Gaussian kernel width (also the snap weight when the
	// Gaussian variant is selected).
	Sigma float64
	// J is the Dirichlet kernel half-width (only used if KernelVariant is
	// Dirichlet).
	J int
	// Threshold is the minimum accepted amplitude, in (0,1).
	Threshold float64
	// KLo, KHi bound the sampling window for k; 0 < KLo < KHi.
	KLo, KHi float64
	// SearchTimeoutMS is the wall-clock budget; 0 disables it.
	SearchTimeoutMS int
	// AllowWhitelistedChallenge bypasses the [10^14, 10^18] gate for the
	// single whitelisted N (WhitelistedN).
	AllowWhitelistedChallenge bool
	// KernelVariant selects Gaussian or Dirichlet.
	KernelVariant kernel.Variant
	// NewtonIterations bounds the snap refinement steps, in [0,3].
	NewtonIterations int
	// StabilityCheck enables the optional amplitude-crossing stability guard.
	StabilityCheck bool
	// Workers is the inner m-sweep worker pool size; values below 1 run a
	// single worker. The CLI resolves 0 via
	// calibration.EstimateOptimalWorkerCount before building this Config.
	Workers int
}
