// Package config provides the configuration management for the grfc
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values, exactly matching the Config table.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/agbru/grfc/internal/errors"
	"github.com/agbru/grfc/internal/engine"
	"github.com/agbru/grfc/internal/kernel"
)

const (
	// EnvPrefix is the prefix for all environment variables used by grfc.
	// Environment variables provide an alternative to CLI flags for
	// configuration, following the 12-Factor App methodology.
	EnvPrefix = "GRFC_"
)

// Default configuration values.
const (
	// DefaultPrecision is the floor for the digit count; 0 means the
	// engine derives it solely from bits(N).
	DefaultPrecision uint = 0
	// DefaultSamples is the maximum number of outer-loop iterations over k.
	DefaultSamples = 20000
	// DefaultMSpan is the inner sweep half-width around each k.
	DefaultMSpan = 3
	// DefaultSigma is the Gaussian kernel width.
	DefaultSigma = 0.15
	// DefaultJ is the Dirichlet kernel half-width.
	DefaultJ = 8
	// DefaultThreshold is the minimum accepted amplitude.
	DefaultThreshold = 0.85
	// DefaultKLo is the low end of the k sampling window.
	DefaultKLo = 2.0
	// DefaultKHi is the high end of the k sampling window.
	DefaultKHi = 2_000_000.0
	// DefaultSearchTimeoutMS is the wall-clock budget in milliseconds; 0
	// disables the deadline.
	DefaultSearchTimeoutMS = 30_000
	// DefaultNewtonIterations is the number of snap refinement iterations.
	DefaultNewtonIterations = 1
	// DefaultWorkers is the inner m-sweep worker pool size; 0 lets
	// calibration.EstimateOptimalWorkerCount pick it from the CPU count.
	DefaultWorkers = 0
)

// Config aggregates the engine's configuration parameters, parsed from
// command-line flags, matching the Config table field-for-field.
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
	// single whitelisted N (engine.WhitelistedN).
	AllowWhitelistedChallenge bool
	// KernelVariant selects Gaussian or Dirichlet.
	KernelVariant kernel.Variant
	// NewtonIterations bounds the snap refinement steps, in [0,3].
	NewtonIterations int
	// StabilityCheck enables the optional amplitude-crossing stability guard.
	StabilityCheck bool
	// Workers is the inner m-sweep worker pool size; 0 defers to
	// calibration.EstimateOptimalWorkerCount.
	Workers int

	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI. Also
	// respects the NO_COLOR environment variable.
	NoColor bool
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// Quiet suppresses progress bars, banners, and informational messages.
	Quiet bool
	// Verbose displays full factor values instead of truncating large ones.
	Verbose bool
	// Interactive starts the application in REPL mode.
	Interactive bool
	// Completion, if set, generates a shell completion script for the
	// named shell ("bash", "zsh", "fish", "powershell").
	Completion string
	// BatchFile, if set, names a file of newline-separated N values to
	// factor concurrently via the batch orchestrator instead of a single N.
	BatchFile string
	// HexOutput displays the certified factors in hexadecimal format
	// alongside the default decimal display.
	HexOutput bool
	// OutputFile, if set, saves the result to this path in addition to
	// printing it.
	OutputFile string
	// CalibrationProfile is the path to a calibration profile file. If
	// empty, uses the default path.
	CalibrationProfile string

	// PositionalArgs holds the non-flag arguments left over after parsing
	// (the N to factor, in single-value mode). Empty when BatchFile is
	// used instead.
	PositionalArgs []string
}

// Validate checks the semantic consistency of the configuration parameters
// against each field's constraints.
func (c Config) Validate() error {
	if c.Samples < 0 {
		return apperrors.NewConfigError("samples cannot be negative: %d", c.Samples)
	}
	if c.MSpan < 0 {
		return apperrors.NewConfigError("m_span cannot be negative: %d", c.MSpan)
	}
	if c.Sigma <= 0 {
		return apperrors.NewConfigError("sigma must be strictly positive: %v", c.Sigma)
	}
	if c.J <= 0 {
		return apperrors.NewConfigError("j must be strictly positive: %d", c.J)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return apperrors.NewConfigError("threshold must be in (0,1): %v", c.Threshold)
	}
	if !(c.KLo > 0 && c.KLo < c.KHi) {
		return apperrors.NewConfigError("k_lo/k_hi must satisfy 0 < k_lo < k_hi: k_lo=%v k_hi=%v", c.KLo, c.KHi)
	}
	if c.SearchTimeoutMS < 0 {
		return apperrors.NewConfigError("search_timeout_ms cannot be negative: %d", c.SearchTimeoutMS)
	}
	if c.NewtonIterations < 0 || c.NewtonIterations > 3 {
		return apperrors.NewConfigError("newton_iterations must be in [0,3]: %d", c.NewtonIterations)
	}
	if c.KernelVariant != kernel.Gaussian && c.KernelVariant != kernel.Dirichlet {
		return apperrors.NewConfigError("unrecognized kernel_variant: %q", c.KernelVariant)
	}
	return nil
}

// EngineConfig projects the application-level Config down to the subset
// engine.Factor actually consumes, leaving out every ambient CLI/server
// field.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		Precision:                 c.Precision,
		Samples:                   c.Samples,
		MSpan:                     c.MSpan,
		Sigma:                     c.Sigma,
		J:                         c.J,
		Threshold:                 c.Threshold,
		KLo:                       c.KLo,
		KHi:                       c.KHi,
		SearchTimeoutMS:           c.SearchTimeoutMS,
		AllowWhitelistedChallenge: c.AllowWhitelistedChallenge,
		KernelVariant:             c.KernelVariant,
		NewtonIterations:          c.NewtonIterations,
		StabilityCheck:            c.StabilityCheck,
		Workers:                   c.Workers,
	}
}

// ParseConfig parses the command-line arguments and populates a Config
// struct. It defines all the command-line flags, sets their default
// values, applies environment variable overrides, and validates the
// result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//
// Returns:
//   - Config: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (Config, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := Config{}
	var kernelVariant string

	fs.UintVar(&cfg.Precision, "precision", DefaultPrecision, "Floor for digit count (0 derives it from bits(N)).")
	fs.IntVar(&cfg.Samples, "samples", DefaultSamples, "Maximum outer-loop iterations over k.")
	fs.IntVar(&cfg.MSpan, "m-span", DefaultMSpan, "Inner sweep range: m in [-m-span, m-span].")
	fs.Float64Var(&cfg.Sigma, "sigma", DefaultSigma, "Gaussian kernel width (also the snap weight).")
	fs.IntVar(&cfg.J, "j", DefaultJ, "Dirichlet kernel half-width.")
	fs.Float64Var(&cfg.Threshold, "threshold", DefaultThreshold, "Minimum accepted amplitude, in (0,1).")
	fs.Float64Var(&cfg.KLo, "k-lo", DefaultKLo, "Low end of the k sampling window.")
	fs.Float64Var(&cfg.KHi, "k-hi", DefaultKHi, "High end of the k sampling window.")
	fs.IntVar(&cfg.SearchTimeoutMS, "search-timeout-ms", DefaultSearchTimeoutMS, "Wall-clock budget in milliseconds (0 disables).")
	fs.BoolVar(&cfg.AllowWhitelistedChallenge, "allow-whitelisted-challenge", false, "Bypass the operational gate for the named 127-bit challenge.")
	fs.StringVar(&kernelVariant, "kernel-variant", string(DefaultKernelVariant), "Kernel variant: 'gaussian' or 'dirichlet'.")
	fs.IntVar(&cfg.NewtonIterations, "newton-iterations", DefaultNewtonIterations, "Snap refinement iterations, in [0,3].")
	fs.BoolVar(&cfg.StabilityCheck, "stability-check", false, "Enable the optional amplitude-crossing stability guard.")
	fs.IntVar(&cfg.Workers, "workers", DefaultWorkers, "Inner m-sweep worker pool size (0 defers to hardware calibration).")

	fs.BoolVar(&cfg.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&cfg.Port, "port", "8080", "Port to listen on in server mode.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&cfg.Verbose, "v", false, "Display full factor values instead of truncating large ones.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&cfg.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.StringVar(&cfg.BatchFile, "batch", "", "File of newline-separated N values to factor concurrently.")
	fs.BoolVar(&cfg.HexOutput, "hex", false, "Display certified factors in hexadecimal format.")
	fs.StringVar(&cfg.OutputFile, "output-file", "", "Save the result to this file in addition to printing it.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.grfc_calibration.yaml).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg, &kernelVariant, fs)

	cfg.KernelVariant = kernel.Variant(strings.ToLower(kernelVariant))
	cfg.PositionalArgs = fs.Args()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return Config{}, errors.New("invalid configuration")
	}
	return cfg, nil
}

// DefaultKernelVariant is the default kernel selection.
const DefaultKernelVariant = kernel.Gaussian
