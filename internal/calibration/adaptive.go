// Package calibration provides hardware-adaptive defaults for the sampler's
// worker pool and m-sweep width, replacing guesswork with a short benchmark
// (or, failing that, a CPU-count heuristic) run once at startup.
// This file implements adaptive candidate generation based on hardware
// characteristics.
package calibration

import (
	"runtime"
	"sort"
)

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Worker Count Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateWorkerCounts generates a list of inner m-sweep worker pool sizes to
// test, scaled to the number of available CPU cores.
func GenerateWorkerCounts() []int {
	numCPU := runtime.NumCPU()

	if numCPU == 1 {
		return []int{1}
	}

	switch {
	case numCPU <= 4:
		return []int{1, 2, numCPU}
	case numCPU <= 8:
		return []int{1, 2, 4, numCPU}
	case numCPU <= 16:
		return []int{1, 2, 4, 8, numCPU}
	default:
		return []int{1, 2, 4, 8, 16, numCPU}
	}
}

// GenerateQuickWorkerCounts generates a smaller set for quick auto-calibration
// at startup.
func GenerateQuickWorkerCounts() []int {
	numCPU := runtime.NumCPU()
	if numCPU == 1 {
		return []int{1}
	}
	return []int{1, numCPU / 2, numCPU}
}

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive m-span Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateMSpanCandidates generates inner-sweep half-widths to test. A wider
// span costs more per outer iteration but covers more of the theta
// neighborhood per k; the right width depends on how many workers are
// available to absorb the extra cost in parallel.
func GenerateMSpanCandidates() []int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return []int{1, 2, 3}
	case numCPU <= 8:
		return []int{2, 3, 5, 8}
	default:
		return []int{3, 5, 8, 13}
	}
}

// GenerateQuickMSpanCandidates generates a smaller set for quick calibration.
func GenerateQuickMSpanCandidates() []int {
	return []int{1, 3, 5}
}

// ─────────────────────────────────────────────────────────────────────────────
// Threshold Estimation (without benchmarking)
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalWorkerCount provides a heuristic estimate of the optimal
// inner m-sweep worker pool size without running a benchmark.
func EstimateOptimalWorkerCount() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 1:
		return 1
	case numCPU <= 4:
		return numCPU
	default:
		// Leave one core free for the outer loop and result-cell bookkeeping.
		return numCPU - 1
	}
}

// EstimateOptimalMSpan provides a heuristic estimate of the optimal m-sweep
// half-width without running a benchmark: wider spans pay off only when
// enough workers exist to process them concurrently.
func EstimateOptimalMSpan() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 2:
		return 2
	case numCPU <= 8:
		return 5
	default:
		return 8
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Candidate Validation
// ─────────────────────────────────────────────────────────────────────────────

// ValidateSamplerParams clamps worker count and m-span into reasonable
// bounds, protecting against a corrupted or adversarial calibration profile.
func ValidateSamplerParams(workers, mSpan int) (int, int) {
	if workers < 1 {
		workers = 1
	}
	if workers > 1024 {
		workers = 1024
	}
	if mSpan < 0 {
		mSpan = 0
	}
	if mSpan > 100000 {
		mSpan = 100000
	}
	return workers, mSpan
}

// ─────────────────────────────────────────────────────────────────────────────
// Combined Candidate Generation
// ─────────────────────────────────────────────────────────────────────────────

// CandidateSet bundles the candidate worker counts and m-span widths for one
// calibration pass.
type CandidateSet struct {
	Workers []int
	MSpan   []int
}

// GenerateFullCandidateSet generates all candidates for a comprehensive
// calibration pass.
func GenerateFullCandidateSet() CandidateSet {
	return CandidateSet{Workers: GenerateWorkerCounts(), MSpan: GenerateMSpanCandidates()}
}

// GenerateQuickCandidateSet generates a reduced candidate set for a fast
// startup calibration.
func GenerateQuickCandidateSet() CandidateSet {
	return CandidateSet{Workers: GenerateQuickWorkerCounts(), MSpan: GenerateQuickMSpanCandidates()}
}

// EstimatedSamplerParams returns heuristic estimates without benchmarking.
func EstimatedSamplerParams() (workers, mSpan int) {
	return EstimateOptimalWorkerCount(), EstimateOptimalMSpan()
}

// Sort sorts each candidate slice in ascending order.
func (c *CandidateSet) Sort() {
	sort.Ints(c.Workers)
	sort.Ints(c.MSpan)
}
