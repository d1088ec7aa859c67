package calibration

import (
	"context"
	"testing"
	"time"
)

func TestMicroBenchmark_AnalyzeResults_Empty(t *testing.T) {
	t.Parallel()
	mb := NewMicroBenchmark()
	tr := mb.analyzeResults(nil)

	if tr.Confidence != 0 {
		t.Errorf("expected zero confidence for no results, got %v", tr.Confidence)
	}
	if tr.Workers < 1 || tr.MSpan < 1 {
		t.Errorf("expected a heuristic fallback, got workers=%d mSpan=%d", tr.Workers, tr.MSpan)
	}
}

func TestMicroBenchmark_AnalyzeResults_PicksFastest(t *testing.T) {
	t.Parallel()
	mb := &MicroBenchmark{Workers: []int{1, 2}, MSpans: []int{3, 5}}
	results := []microTrialResult{
		{workers: 1, mSpan: 3, duration: 50 * time.Millisecond},
		{workers: 2, mSpan: 5, duration: 5 * time.Millisecond},
		{workers: 1, mSpan: 5, duration: 20 * time.Millisecond},
	}

	tr := mb.analyzeResults(results)
	if tr.Workers != 2 || tr.MSpan != 5 {
		t.Errorf("expected the fastest config (2,5), got (%d,%d)", tr.Workers, tr.MSpan)
	}
	if tr.Confidence <= 0 || tr.Confidence > 1 {
		t.Errorf("confidence out of range: %v", tr.Confidence)
	}
}

func TestQuickCalibrate_CompletesWithinTimeout(t *testing.T) {
	t.Parallel()
	start := time.Now()
	tr, err := QuickCalibrate(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("QuickCalibrate returned an error: %v", err)
	}
	if tr.Workers < 1 || tr.MSpan < 1 {
		t.Errorf("expected positive sampler params, got workers=%d mSpan=%d", tr.Workers, tr.MSpan)
	}
	// Generous upper bound: MicroBenchTimeout plus scheduling slack.
	if elapsed > 2*time.Second {
		t.Errorf("QuickCalibrate took too long: %v", elapsed)
	}
}
