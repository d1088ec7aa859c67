// Package calibration provides hardware-adaptive defaults for the sampler's
// worker pool and m-sweep width. This file implements the top-level
// calibration entry points, benchmarking engine.Factor's inner m-sweep
// across a (workers, m_span) grid.
package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/grfc/internal/cli"
	"github.com/agbru/grfc/internal/config"
	apperrors "github.com/agbru/grfc/internal/errors"
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save/load the calibration profile. If
	// empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// LoadProfile indicates whether to try loading an existing profile
	// before benchmarking.
	LoadProfile bool
}

// calibrationResult holds the result of a single candidate trial.
type calibrationResult struct {
	Workers  int
	MSpan    int
	Duration time.Duration
}

// RunCalibration executes a comprehensive benchmark over the inner m-sweep's
// Workers and MSpan candidates to determine the fastest pair on the current
// hardware, and persists the result as a calibration profile.
func RunCalibration(ctx context.Context, out io.Writer) int {
	return RunCalibrationWithOptions(ctx, out, CalibrationOptions{
		SaveProfile: true,
		LoadProfile: false, // full calibration should run fresh
	})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Worker Count and M-Span ---\n")

	if opts.LoadProfile {
		profile, loaded := LoadOrCreateProfile(opts.ProfilePath)
		if loaded && profile.IsValid() {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				cli.ColorGreen(), DefaultProfilePath(), cli.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			fmt.Fprintf(out, "\n%s✅ Using cached calibration: %s--workers %d --m-span %d%s\n",
				cli.ColorGreen(), cli.ColorYellow(), profile.OptimalWorkers, profile.OptimalMSpan, cli.ColorReset())
			return apperrors.ExitSuccess
		}
	}

	candidates := GenerateFullCandidateSet()
	fmt.Fprintf(out, "%sUsing adaptive candidates for %d CPU cores%s\n",
		cli.ColorCyan(), runtime.NumCPU(), cli.ColorReset())

	runner := newCalibrationRunner(ctx, 3*time.Second)
	calibrationStart := time.Now()

	// Pass 1: hold m-span at its heuristic estimate, sweep worker counts.
	_, estMSpan := EstimatedSamplerParams()
	results := make([]calibrationResult, 0, len(candidates.Workers)+len(candidates.MSpan))
	bestWorkers, bestWorkersDur := runner.findBestWorkerCount(candidates.Workers, estMSpan, EstimateOptimalWorkerCount())
	for _, w := range candidates.Workers {
		results = append(results, calibrationResult{Workers: w, MSpan: estMSpan})
	}

	if ctx.Err() != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", cli.ColorYellow(), cli.ColorReset())
		return apperrors.ExitErrorCanceled
	}

	// Pass 2: hold workers at the winner from pass 1, sweep m-span.
	bestMSpan, _ := runner.findBestMSpan(candidates.MSpan, bestWorkers, EstimateOptimalMSpan())
	for i := range results {
		if results[i].Workers == bestWorkers {
			results[i].Duration = bestWorkersDur
		}
	}

	printCalibrationResults(out, results, bestWorkers, bestMSpan)

	calibrationDuration := time.Since(calibrationStart)

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s--workers %d --m-span %d%s\n",
		cli.ColorGreen(), cli.ColorYellow(), bestWorkers, bestMSpan, cli.ColorReset())

	if opts.SaveProfile {
		profile := NewEstimatedProfile()
		profile.OptimalWorkers = bestWorkers
		profile.OptimalMSpan = bestMSpan
		profile.Measured = true
		profile.CalibrationTime = calibrationDuration

		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n",
				cli.ColorYellow(), err, cli.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				cli.ColorGreen(), DefaultProfilePath(), cli.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick startup calibration to fine-tune the sampler's
// Workers and MSpan fields. Unlike RunCalibration, it is designed to be fast
// enough to run at application startup without a significant delay: it
// first checks for a cached profile, then runs the QuickCalibrate
// micro-benchmark, then falls back to CPU-count heuristics rather than
// running a full benchmark sweep.
func AutoCalibrate(parentCtx context.Context, cfg config.Config, out io.Writer) (updated config.Config, ok bool) {
	return AutoCalibrateWithProfile(parentCtx, cfg, out, cfg.CalibrationProfile)
}

// AutoCalibrateWithProfile runs auto-calibration against a specific profile
// path. It first tries a cached profile, then the QuickCalibrate
// micro-benchmark (used when its confidence is at least 0.5), then falls
// back to the CPU-count heuristic in adaptive.go. RunCalibration is the
// full benchmark sweep.
func AutoCalibrateWithProfile(parentCtx context.Context, cfg config.Config, out io.Writer, profilePath string) (updated config.Config, ok bool) {
	if profile, loaded := LoadOrCreateProfile(profilePath); loaded && profile.IsValid() {
		updated = cfg
		updated.Workers = profile.OptimalWorkers
		if cfg.MSpan == 0 {
			updated.MSpan = profile.OptimalMSpan
		}

		fmt.Fprintf(out, "%sUsing cached calibration%s: workers=%s%d%s, m_span=%s%d%s\n",
			cli.ColorGreen(), cli.ColorReset(),
			cli.ColorYellow(), updated.Workers, cli.ColorReset(),
			cli.ColorYellow(), updated.MSpan, cli.ColorReset())
		return updated, true
	}

	// No cached profile: try a quick micro-benchmark (bounded by
	// MicroBenchTimeout, 150ms) before
	// falling back to the pure CPU-count heuristic.
	if micro, err := QuickCalibrate(parentCtx); err == nil && micro.Confidence >= 0.5 {
		updated = cfg
		updated.Workers = micro.Workers
		if cfg.MSpan == 0 {
			updated.MSpan = micro.MSpan
		}

		fmt.Fprintf(out, "%sQuick calibration%s (%v): workers=%s%d%s, m_span=%s%d%s (confidence: %.0f%%)\n",
			cli.ColorGreen(), cli.ColorReset(),
			micro.Duration.Round(time.Millisecond),
			cli.ColorYellow(), updated.Workers, cli.ColorReset(),
			cli.ColorYellow(), updated.MSpan, cli.ColorReset(),
			micro.Confidence*100)

		saveCalibrationProfile(updated, profilePath, out)
		return updated, true
	}

	workers, mSpan := EstimatedSamplerParams()
	updated = cfg
	updated.Workers = workers
	if cfg.MSpan == 0 {
		updated.MSpan = mSpan
	}

	fmt.Fprintf(out, "%sQuick calibration%s: workers=%s%d%s, m_span=%s%d%s (heuristic, %d CPUs)\n",
		cli.ColorGreen(), cli.ColorReset(),
		cli.ColorYellow(), updated.Workers, cli.ColorReset(),
		cli.ColorYellow(), updated.MSpan, cli.ColorReset(),
		runtime.NumCPU())

	saveCalibrationProfile(updated, profilePath, out)
	return updated, true
}

// LoadCachedCalibration attempts to load a cached calibration profile and
// apply it to the configuration. Returns the updated config and true if a
// valid cached profile was found.
func LoadCachedCalibration(cfg config.Config, profilePath string) (updated config.Config, ok bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() {
		return cfg, false
	}

	updated = cfg
	updated.Workers = profile.OptimalWorkers
	if cfg.MSpan == 0 {
		updated.MSpan = profile.OptimalMSpan
	}
	return updated, true
}

// saveCalibrationProfile saves the calibration results to a profile,
// warning (but not failing) on write errors.
func saveCalibrationProfile(cfg config.Config, profilePath string, out io.Writer) {
	profile := NewEstimatedProfile()
	profile.OptimalWorkers = cfg.Workers
	profile.OptimalMSpan = cfg.MSpan

	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n",
			cli.ColorYellow(), err, cli.ColorReset())
	}
}
