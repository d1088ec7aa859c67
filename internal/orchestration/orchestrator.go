// Package orchestration drives the concurrent execution of engine.Factor
// over a batch of N values and summarizes the outcomes.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/grfc/internal/cli"
	"github.com/agbru/grfc/internal/config"
	"github.com/agbru/grfc/internal/engine"
	apperrors "github.com/agbru/grfc/internal/errors"
	"github.com/agbru/grfc/internal/parallel"
	"github.com/agbru/grfc/internal/ui"
)

// reasonCertificationInvariantViolation marks a FactorResult whose search
// goroutine recovered from certify.Try's fatal invariant-violation panic.
// It is never produced by the engine itself; only ExecuteBatch's recovery
// wrapper assigns it.
const reasonCertificationInvariantViolation engine.Reason = "CERTIFICATION_INVARIANT_VIOLATION"

// FactorResult encapsulates the outcome of factoring a single N within a
// batch run. It serves as a standardized container for the engine.Result
// plus the input N, facilitating reporting.
type FactorResult struct {
	// N is the value that was factored.
	N *big.Int
	// Result is the engine outcome (success, or a Failure Reason).
	Result engine.Result
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking search
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteBatch orchestrates the concurrent execution of engine.Factor over
// one or more N values.
//
// It manages the lifecycle of search goroutines, collects their results,
// and coordinates the display of progress updates. This function is the
// core of the application's batch concurrency model.
//
// Any goroutine that recovers a panic from certify.Try's fatal
// invariant-violation path reports it through a shared parallel.ErrorCollector;
// only the first such panic across the whole batch is kept, matching the
// collector's write-once semantics. The panicking N's own FactorResult is
// still recorded, tagged with reasonCertificationInvariantViolation, so the
// summary table accounts for every N even when the batch as a whole is
// declared unsound.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - Ns: A slice of values to factor.
//   - cfg: The application configuration (engine parameters).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []FactorResult: A slice containing the outcome for each N.
//   - error: non-nil if any N's search hit a certification invariant
//     violation; callers must treat the batch as unsound in that case.
func ExecuteBatch(ctx context.Context, Ns []*big.Int, cfg config.Config, out io.Writer) ([]FactorResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]FactorResult, len(Ns))
	progressChan := make(chan cli.ProgressUpdate, len(Ns)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(Ns), out)

	engineCfg := cfg.EngineConfig()

	var errs parallel.ErrorCollector

	for i, n := range Ns {
		idx, N := i, n
		g.Go(func() (gerr error) {
			defer func() {
				if r := recover(); r != nil {
					cause, ok := r.(error)
					if !ok {
						cause = fmt.Errorf("%v", r)
					}
					errs.SetError(apperrors.CalculationError{Cause: cause})
					results[idx] = FactorResult{N: N, Result: engine.Result{Reason: reasonCertificationInvariantViolation}}
				}
				select {
				case progressChan <- cli.ProgressUpdate{BatchIndex: idx, Value: 1.0}:
				default:
				}
			}()
			res := engine.Factor(ctx, N, engineCfg)
			results[idx] = FactorResult{N: N, Result: res}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results, errs.Err()
}

// AnalyzeBatchResults processes the results from a batch run and generates
// a summary report.
//
// It sorts the results by success then elapsed time, displays a per-N
// table, and determines the global exit code: success if at least one N
// was certified, failure otherwise.
//
// A non-nil batchErr (from ExecuteBatch) overrides the success/failure
// tally: a certification invariant violation makes the batch unsound
// regardless of how many N's otherwise succeeded.
//
// Parameters:
//   - results: The slice of factor results to analyze.
//   - batchErr: The aggregated error from ExecuteBatch, or nil.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or failure.
func AnalyzeBatchResults(results []FactorResult, batchErr error, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Result.Success != results[j].Result.Success {
			return results[i].Result.Success
		}
		return results[i].Result.Elapsed < results[j].Result.Elapsed
	})

	successCount := 0

	fmt.Fprintf(out, "\n--- Batch Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sN%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Result.Success {
			status = fmt.Sprintf("%s✅ %s * %s%s", ui.ColorGreen(), res.Result.P, res.Result.Q, ui.ColorReset())
			successCount++
		} else {
			status = fmt.Sprintf("%s❌ %s%s", ui.ColorRed(), res.Result.Reason, ui.ColorReset())
		}
		duration := cli.FormatExecutionDuration(res.Result.Elapsed)
		if res.Result.Elapsed == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), truncateN(res.N), ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if batchErr != nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. A certification invariant was violated during the batch.\n")
		return apperrors.HandleCalculationError(batchErr, 0, out, cli.CLIColorProvider{})
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No value in the batch could be factored.\n")
		return apperrors.HandleCalculationError(fmt.Errorf("no certified factors in batch"), 0, out, cli.CLIColorProvider{})
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. %d/%d values certified.\n", successCount, len(results))
	return apperrors.ExitSuccess
}

// truncateN renders N's decimal string, truncated for readability when it
// exceeds cli.TruncationLimit digits.
func truncateN(n *big.Int) string {
	s := n.String()
	if len(s) <= cli.TruncationLimit {
		return s
	}
	return s[:20] + "..." + s[len(s)-20:]
}
