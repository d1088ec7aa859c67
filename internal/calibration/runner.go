package calibration

import (
	"context"
	"math/big"
	"time"

	"github.com/agbru/grfc/internal/engine"
	"github.com/agbru/grfc/internal/kernel"
)

// benchmarkN is a fixed, known-factorable semiprime used as the calibration
// workload: within the default operational gate and cheap enough to search
// to completion within a couple of seconds (p=10000019, q=10000079).
var benchmarkN = mustBigInt("100000980001501")

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("calibration: invalid literal " + s)
	}
	return n
}

// calibrationRunner encapsulates the trial-run logic for calibration: it
// repeatedly invokes engine.Factor against benchmarkN with a candidate
// Workers/MSpan pair and measures how long the search takes to settle.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
}

// newCalibrationRunner creates a new calibration runner. perTrial bounds how
// long any single trial is allowed to run before being cut off as a loss.
func newCalibrationRunner(ctx context.Context, perTrial time.Duration) *calibrationRunner {
	if perTrial < 500*time.Millisecond {
		perTrial = 500 * time.Millisecond
	}
	return &calibrationRunner{ctx: ctx, perTrial: perTrial}
}

// baseTrialConfig returns the Config shared by every trial, varying only
// Workers and MSpan per candidate.
func baseTrialConfig() engine.Config {
	return engine.Config{
		Samples:         4000,
		Sigma:           0.15,
		J:               8,
		Threshold:       0.85,
		KLo:             2.0,
		KHi:             20_000_000.0,
		SearchTimeoutMS: 0, // the runner's own per-trial context applies the deadline
		NewtonIterations: 1,
	}
}

// runTrial runs one engine.Factor call against benchmarkN with the given
// worker count and m-span, returning how long it took. A trial that hits the
// runner's deadline without certifying a factor still returns its elapsed
// duration — slower trials are simply worse candidates, not failures.
func (r *calibrationRunner) runTrial(workers, mSpan int) time.Duration {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()

	cfg := baseTrialConfig()
	cfg.Workers = workers
	cfg.MSpan = mSpan
	cfg.KernelVariant = kernel.Gaussian

	start := time.Now()
	engine.Factor(ctx, benchmarkN, cfg)
	return time.Since(start)
}

// findBestWorkerCount measures each candidate worker count against
// benchmarkN (holding m-span fixed at its current-best estimate) and returns
// the fastest.
func (r *calibrationRunner) findBestWorkerCount(candidates []int, mSpan, fallback int) (best int, bestDur time.Duration) {
	best = fallback
	bestDur = time.Duration(1<<63 - 1)
	for _, workers := range candidates {
		dur := r.runTrial(workers, mSpan)
		if dur < bestDur {
			bestDur, best = dur, workers
		}
	}
	return best, bestDur
}

// findBestMSpan measures each candidate m-span (holding worker count fixed)
// and returns the fastest.
func (r *calibrationRunner) findBestMSpan(candidates []int, workers, fallback int) (best int, bestDur time.Duration) {
	best = fallback
	bestDur = time.Duration(1<<63 - 1)
	for _, mSpan := range candidates {
		dur := r.runTrial(workers, mSpan)
		if dur < bestDur {
			bestDur, best = dur, mSpan
		}
	}
	return best, bestDur
}
