package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/agbru/grfc/internal/calibration"
	"github.com/agbru/grfc/internal/cli"
	"github.com/agbru/grfc/internal/config"
	apperrors "github.com/agbru/grfc/internal/errors"
	"github.com/agbru/grfc/internal/orchestration"
	"github.com/agbru/grfc/internal/server"
	"github.com/agbru/grfc/internal/ui"
)

// Application represents the grfc application instance.
// It encapsulates the configuration and provides methods to run
// the application in various modes (CLI, server, REPL, batch).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.Config
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or
// validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "grfc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	// Try to load a cached calibration profile first, so the application
	// can reuse the optimal Workers/MSpan values found in a previous run.
	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = applyAdaptiveDefaults(cfg)
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// applyAdaptiveDefaults adjusts the Workers and MSpan parameters based on
// hardware characteristics (CPU core count) when they are left at their
// static default values. This provides automatic performance optimization
// without running a calibration benchmark.
//
// The function only modifies fields still at their static default,
// preserving any user-specified overrides via command-line flags.
//
// Parameters:
//   - cfg: The initial configuration with potentially default values.
//
// Returns:
//   - config.Config: The configuration with adaptive defaults applied.
func applyAdaptiveDefaults(cfg config.Config) config.Config {
	if cfg.Workers == config.DefaultWorkers {
		cfg.Workers = calibration.EstimateOptimalWorkerCount()
	}
	if cfg.MSpan == config.DefaultMSpan {
		cfg.MSpan = calibration.EstimateOptimalMSpan()
	}
	return cfg
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, REPL,
// or batch calculation).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Handle completion script generation
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Interactive REPL mode
	if a.Config.Interactive {
		return a.runREPL()
	}

	// Standard batch/single-N calculation mode
	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	kernels := []string{"gaussian", "dirichlet"}
	if err := cli.GenerateCompletion(out, a.Config.Completion, kernels); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL() int {
	engineCfg := a.Config.EngineConfig()
	timeout := 30 * time.Second
	if engineCfg.SearchTimeoutMS > 0 {
		timeout = time.Duration(engineCfg.SearchTimeoutMS) * time.Millisecond
	}
	repl := cli.NewREPL(cli.REPLConfig{
		DefaultKernel: a.Config.KernelVariant,
		Timeout:       timeout,
		Engine:        engineCfg,
		HexOutput:     a.Config.HexOutput,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// resolveTargets determines the set of N values to factor: either the
// single positional argument, or the newline-separated contents of
// --batch.
func (a *Application) resolveTargets() ([]*big.Int, error) {
	if a.Config.BatchFile != "" {
		return parseBatchFile(a.Config.BatchFile)
	}

	if len(a.Config.PositionalArgs) == 0 {
		return nil, errors.New("missing required argument: N (the value to factor)")
	}

	n, ok := new(big.Int).SetString(a.Config.PositionalArgs[0], 10)
	if !ok || n.Sign() <= 0 {
		return nil, fmt.Errorf("invalid N: %q is not a positive decimal integer", a.Config.PositionalArgs[0])
	}
	return []*big.Int{n}, nil
}

// parseBatchFile reads a file of newline-separated decimal N values.
func parseBatchFile(path string) ([]*big.Int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var targets []*big.Int
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n, ok := new(big.Int).SetString(line, 10)
		if !ok || n.Sign() <= 0 {
			return nil, fmt.Errorf("invalid N in batch file: %q", line)
		}
		targets = append(targets, n)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("batch file %q contains no values", path)
	}
	return targets, nil
}

// runCalculate orchestrates the execution of the batch/single-N
// factorization command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	targets, err := a.resolveTargets()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	// Per-N deadlines are applied inside the engine via SearchTimeoutMS;
	// here we only need to propagate OS termination signals.
	ctx, stopSignals := SetupSignals(ctx)
	defer stopSignals()

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, targets[0], out)
		cli.PrintExecutionMode(len(targets), out)
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	results, batchErr := orchestration.ExecuteBatch(ctx, targets, a.Config, progressOut)

	if a.Config.JSONOutput {
		exitCode := printJSONResults(results, out)
		if batchErr != nil {
			return apperrors.HandleCalculationError(batchErr, 0, out, nil)
		}
		return exitCode
	}

	return a.analyzeResultsWithOutput(results, batchErr, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.FactorResult, batchErr error, out io.Writer) int {
	// Quiet mode with a single target: print just the terse result line.
	if a.Config.Quiet && len(results) == 1 && batchErr == nil {
		cli.DisplayQuietResult(out, results[0].Result, a.Config.HexOutput)
		if err := a.saveResultIfNeeded(results[0]); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if !results[0].Result.Success {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeBatchResults(results, batchErr, out)

	best := findBestResult(results)
	if best != nil && exitCode == apperrors.ExitSuccess {
		a.displayHexIfNeeded(*best, out)
		if err := a.saveResultIfNeeded(*best); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if a.Config.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
		}
	}

	return exitCode
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with
// success after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func findBestResult(results []orchestration.FactorResult) *orchestration.FactorResult {
	var best *orchestration.FactorResult
	for i := range results {
		if results[i].Result.Success {
			if best == nil || results[i].Result.Elapsed < best.Result.Elapsed {
				best = &results[i]
			}
		}
	}
	return best
}

func (a *Application) saveResultIfNeeded(res orchestration.FactorResult) error {
	if a.Config.OutputFile == "" {
		return nil
	}
	outCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
	if err := cli.WriteResultToFile(res.Result, res.N, outCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

func (a *Application) displayHexIfNeeded(res orchestration.FactorResult, out io.Writer) {
	if !a.Config.HexOutput || !res.Result.Success {
		return
	}
	fmt.Fprintf(out, "\n%s--- Hexadecimal Format ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "p = %s0x%s%s\n", ui.ColorGreen(), res.Result.P.Text(16), ui.ColorReset())
	fmt.Fprintf(out, "q = %s0x%s%s\n", ui.ColorGreen(), res.Result.Q.Text(16), ui.ColorReset())
}

// jsonResult represents a single factorization outcome in JSON format.
type jsonResult struct {
	N        string `json:"n"`
	Success  bool   `json:"success"`
	P        string `json:"p,omitempty"`
	Q        string `json:"q,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Samples  int    `json:"samples"`
	Duration string `json:"duration"`
}

// printJSONResults formats the batch results as a JSON array and writes
// them to the output.
func printJSONResults(results []orchestration.FactorResult, out io.Writer) int {
	output := make([]jsonResult, len(results))
	for i, res := range results {
		jr := jsonResult{
			N:        res.N.String(),
			Success:  res.Result.Success,
			Samples:  res.Result.Samples,
			Duration: res.Result.Elapsed.String(),
		}
		if res.Result.Success {
			jr.P = res.Result.P.String()
			jr.Q = res.Result.Q.String()
		} else {
			jr.Reason = string(res.Result.Reason)
		}
		output[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
