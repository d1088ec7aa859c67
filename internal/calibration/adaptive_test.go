package calibration

import (
	"runtime"
	"testing"
)

func TestGenerateWorkerCounts(t *testing.T) {
	t.Parallel()
	workers := GenerateWorkerCounts()

	if len(workers) == 0 {
		t.Fatal("expected at least one worker candidate")
	}
	for i, w := range workers {
		if w < 1 {
			t.Errorf("worker candidate at index %d is non-positive: %d", i, w)
		}
	}

	numCPU := runtime.NumCPU()
	switch {
	case numCPU == 1:
		if len(workers) != 1 || workers[0] != 1 {
			t.Errorf("for 1 CPU, expected [1], got %v", workers)
		}
	case numCPU <= 4:
		if len(workers) != 3 {
			t.Errorf("for %d CPUs, expected 3 candidates, got %d", numCPU, len(workers))
		}
	case numCPU <= 8:
		if len(workers) != 4 {
			t.Errorf("for %d CPUs, expected 4 candidates, got %d", numCPU, len(workers))
		}
	}

	t.Logf("Generated %d worker candidates for %d CPUs: %v", len(workers), numCPU, workers)
}

func TestGenerateQuickWorkerCounts(t *testing.T) {
	t.Parallel()
	quick := GenerateQuickWorkerCounts()
	full := GenerateWorkerCounts()

	if len(quick) > len(full) {
		t.Error("quick worker candidates should not exceed the full set")
	}
	if len(quick) == 0 {
		t.Error("expected at least one quick worker candidate")
	}

	numCPU := runtime.NumCPU()
	if numCPU == 1 && (len(quick) != 1 || quick[0] != 1) {
		t.Errorf("for 1 CPU, expected [1], got %v", quick)
	}
}

func TestGenerateMSpanCandidates(t *testing.T) {
	t.Parallel()
	candidates := GenerateMSpanCandidates()

	if len(candidates) == 0 {
		t.Fatal("expected at least one m-span candidate")
	}
	for i, m := range candidates {
		if m < 1 {
			t.Errorf("m-span candidate at index %d is non-positive: %d", i, m)
		}
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i] < candidates[i-1] {
			t.Errorf("m-span candidates not in ascending order at index %d", i)
		}
	}
}

func TestGenerateQuickMSpanCandidates(t *testing.T) {
	t.Parallel()
	quick := GenerateQuickMSpanCandidates()
	if len(quick) == 0 {
		t.Error("expected at least one quick m-span candidate")
	}
}

func TestEstimateOptimalWorkerCount(t *testing.T) {
	t.Parallel()
	workers := EstimateOptimalWorkerCount()

	if workers < 1 {
		t.Errorf("estimated worker count should be at least 1, got %d", workers)
	}

	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 1:
		if workers != 1 {
			t.Errorf("for 1 CPU, expected 1 worker, got %d", workers)
		}
	case numCPU <= 4:
		if workers != numCPU {
			t.Errorf("for %d CPUs, expected %d workers, got %d", numCPU, numCPU, workers)
		}
	default:
		if workers != numCPU-1 {
			t.Errorf("for %d CPUs, expected %d workers, got %d", numCPU, numCPU-1, workers)
		}
	}
}

func TestEstimateOptimalMSpan(t *testing.T) {
	t.Parallel()
	mSpan := EstimateOptimalMSpan()
	if mSpan < 1 {
		t.Errorf("estimated m-span should be positive, got %d", mSpan)
	}
}

func TestValidateSamplerParams(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		workers, mSpan int
		wantWorkers, wantMSpan int
	}{
		{"normal values", 4, 5, 4, 5},
		{"negative workers", -1, 5, 1, 5},
		{"zero workers", 0, 5, 1, 5},
		{"negative m-span", 4, -1, 4, 0},
		{"too high workers", 10000, 5, 1024, 5},
		{"too high m-span", 4, 1000000, 4, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, m := ValidateSamplerParams(tt.workers, tt.mSpan)
			if w != tt.wantWorkers {
				t.Errorf("workers = %d, want %d", w, tt.wantWorkers)
			}
			if m != tt.wantMSpan {
				t.Errorf("mSpan = %d, want %d", m, tt.wantMSpan)
			}
		})
	}
}

func TestGenerateFullCandidateSet(t *testing.T) {
	t.Parallel()
	set := GenerateFullCandidateSet()

	if len(set.Workers) == 0 {
		t.Error("expected non-empty worker candidates")
	}
	if len(set.MSpan) == 0 {
		t.Error("expected non-empty m-span candidates")
	}
}

func TestGenerateQuickCandidateSet(t *testing.T) {
	t.Parallel()
	quick := GenerateQuickCandidateSet()
	full := GenerateFullCandidateSet()

	if len(quick.Workers) > len(full.Workers) {
		t.Error("quick worker candidates should not exceed full")
	}
}

func TestEstimatedSamplerParams(t *testing.T) {
	t.Parallel()
	workers, mSpan := EstimatedSamplerParams()

	if workers < 1 || mSpan < 1 {
		t.Errorf("estimated sampler params should be positive: workers=%d mSpan=%d", workers, mSpan)
	}
}

func TestCandidateSetSort(t *testing.T) {
	t.Parallel()
	set := CandidateSet{
		Workers: []int{8, 1, 4, 2},
		MSpan:   []int{5, 1, 3},
	}

	set.Sort()

	for i := 1; i < len(set.Workers); i++ {
		if set.Workers[i] < set.Workers[i-1] {
			t.Error("workers not sorted")
		}
	}
	for i := 1; i < len(set.MSpan); i++ {
		if set.MSpan[i] < set.MSpan[i-1] {
			t.Error("m-spans not sorted")
		}
	}
}

func BenchmarkGenerateWorkerCounts(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = GenerateWorkerCounts()
	}
}

func BenchmarkEstimatedSamplerParams(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = EstimatedSamplerParams()
	}
}
