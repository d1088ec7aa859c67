// This file implements a fast micro-benchmark (150ms budget) for estimating
// good Workers/MSpan defaults at application startup, grounded on the
// teacher's microbench.go parallel-configuration-sweep harness — rebuilt to
// time short engine.Factor trials over a (workers, m_span) grid instead of
// timing big.Int Karatsuba-vs-FFT multiplication at varying word sizes.
package calibration

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/grfc/internal/engine"
	"github.com/agbru/grfc/internal/kernel"
)

const (
	// MicroBenchTimeout bounds the entire quick-calibration pass.
	MicroBenchTimeout = 150 * time.Millisecond
	// MicroBenchPerTrialTimeout bounds any single (workers, m_span) trial.
	MicroBenchPerTrialTimeout = 25 * time.Millisecond
)

// microTrialResult holds timing data for one (workers, m_span) configuration.
type microTrialResult struct {
	workers  int
	mSpan    int
	duration time.Duration
}

// ThresholdResults holds the estimated optimal sampler parameters from a
// micro-benchmark pass.
type ThresholdResults struct {
	// Workers is the estimated best inner m-sweep worker pool size.
	Workers int
	// MSpan is the estimated best inner sweep half-width.
	MSpan int
	// Confidence is a score in [0,1] indicating result reliability: the
	// fraction of candidate configurations whose trial returned a timing
	// before the whole pass was cancelled. A trial cut off by its per-trial
	// deadline still counts.
	Confidence float64
	// Duration is how long the micro-benchmark pass took.
	Duration time.Duration
}

// MicroBenchmark performs fast, parallel trials to estimate good sampler
// defaults without running a full RunCalibration sweep.
type MicroBenchmark struct {
	// Workers are the candidate worker counts to test.
	Workers []int
	// MSpans are the candidate m-span widths to test.
	MSpans []int
	// Timeout bounds the entire benchmark pass.
	Timeout time.Duration
}

// NewMicroBenchmark creates a MicroBenchmark with the quick candidate set.
func NewMicroBenchmark() *MicroBenchmark {
	quick := GenerateQuickCandidateSet()
	return &MicroBenchmark{
		Workers: quick.Workers,
		MSpans:  quick.MSpan,
		Timeout: MicroBenchTimeout,
	}
}

// RunQuick runs every (workers, m_span) pair from mb's candidate lists
// concurrently against a tiny benchmark search and returns the fastest.
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (ThresholdResults, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	results := mb.runParallelTrials(ctx)
	thresholds := mb.analyzeResults(results)
	thresholds.Duration = time.Since(start)
	return thresholds, nil
}

// runParallelTrials fans out one short engine.Factor trial per (workers,
// m_span) pair, bounded by a semaphore to avoid oversubscribing the CPU the
// trials themselves are trying to measure.
func (mb *MicroBenchmark) runParallelTrials(ctx context.Context) []microTrialResult {
	var results []microTrialResult
	var mu sync.Mutex
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, runtime.NumCPU())

	for _, w := range mb.Workers {
		for _, m := range mb.MSpans {
			wg.Add(1)
			go func(workers, mSpan int) {
				defer wg.Done()

				select {
				case <-ctx.Done():
					return
				case semaphore <- struct{}{}:
					defer func() { <-semaphore }()
				}

				dur, ok := runMicroTrial(ctx, workers, mSpan)
				if !ok {
					return
				}

				mu.Lock()
				results = append(results, microTrialResult{workers: workers, mSpan: mSpan, duration: dur})
				mu.Unlock()
			}(w, m)
		}
	}

	wg.Wait()
	return results
}

// runMicroTrial times a single, heavily sample-limited engine.Factor call:
// enough outer-loop iterations to exercise the worker pool, small enough to
// finish within MicroBenchPerTrialTimeout on any reasonable machine.
func runMicroTrial(ctx context.Context, workers, mSpan int) (time.Duration, bool) {
	trialCtx, cancel := context.WithTimeout(ctx, MicroBenchPerTrialTimeout)
	defer cancel()

	cfg := engine.Config{
		Samples:          200,
		MSpan:            mSpan,
		Sigma:            0.15,
		J:                8,
		Threshold:        0.85,
		KLo:              2.0,
		KHi:              20_000_000.0,
		NewtonIterations: 1,
		KernelVariant:    kernel.Gaussian,
		Workers:          workers,
	}

	start := time.Now()
	engine.Factor(trialCtx, benchmarkN, cfg)
	if trialCtx.Err() != nil && ctx.Err() == nil {
		// The per-trial deadline fired without the outer context also being
		// done: the trial simply ran long at this configuration, which is
		// itself useful signal, not a failure.
		return time.Since(start), true
	}
	if ctx.Err() != nil {
		return 0, false
	}
	return time.Since(start), true
}

// analyzeResults picks the fastest recorded trial and derives a confidence
// score from how many of the candidate configurations recorded a timing.
func (mb *MicroBenchmark) analyzeResults(results []microTrialResult) ThresholdResults {
	total := len(mb.Workers) * len(mb.MSpans)
	tr := ThresholdResults{
		Workers:    EstimateOptimalWorkerCount(),
		MSpan:      EstimateOptimalMSpan(),
		Confidence: 0,
	}

	if len(results) == 0 || total == 0 {
		return tr
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.duration < best.duration {
			best = r
		}
	}

	tr.Workers = best.workers
	tr.MSpan = best.mSpan
	tr.Confidence = float64(len(results)) / float64(total)
	if tr.Confidence > 1.0 {
		tr.Confidence = 1.0
	}
	return tr
}

// QuickCalibrate performs a fast calibration using micro-benchmarks. This is
// designed to run in well under MicroBenchTimeout and provide a reasonable
// Workers/MSpan estimate without the full RunCalibration sweep.
func QuickCalibrate(ctx context.Context) (ThresholdResults, error) {
	mb := NewMicroBenchmark()
	return mb.RunQuick(ctx)
}
