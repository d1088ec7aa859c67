// Package config provides the configuration management for the grfc
// application. This file contains environment variable utilities for
// configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given
// key (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvUint returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as uint, or the default value if not
// set or invalid.
func getEnvUint(key string, defaultVal uint) uint {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return uint(parsed)
		}
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat64 returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as float64, or the default value if
// not set or invalid.
func getEnvFloat64(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as bool, or the default value if not
// set. Accepts "true", "1", "yes" as true; "false", "0", "no" as false
// (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line. This is
// used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the
// configuration for any flags that were not explicitly set on the command
// line. This implements the priority: CLI flags > Environment variables >
// Defaults.
//
// Supported environment variables:
//   - GRFC_PRECISION: floor for digit count (uint)
//   - GRFC_SAMPLES: maximum outer-loop iterations (int)
//   - GRFC_M_SPAN: inner sweep half-width (int)
//   - GRFC_SIGMA: Gaussian kernel width (float64)
//   - GRFC_J: Dirichlet kernel half-width (int)
//   - GRFC_THRESHOLD: minimum accepted amplitude (float64)
//   - GRFC_K_LO, GRFC_K_HI: k sampling window (float64)
//   - GRFC_SEARCH_TIMEOUT_MS: wall-clock budget (int)
//   - GRFC_ALLOW_WHITELISTED_CHALLENGE: bypass the operational gate (bool)
//   - GRFC_KERNEL_VARIANT: "gaussian" or "dirichlet" (string)
//   - GRFC_NEWTON_ITERATIONS: snap refinement iterations (int)
//   - GRFC_STABILITY_CHECK: enable the stability guard (bool)
//   - GRFC_WORKERS: inner m-sweep worker pool size (int)
//   - GRFC_SERVER: enable server mode (bool)
//   - GRFC_PORT: port for server mode (string)
//   - GRFC_JSON: enable JSON output (bool)
//   - GRFC_QUIET: enable quiet mode (bool)
//   - GRFC_VERBOSE: enable verbose output (bool)
//   - GRFC_INTERACTIVE: enable interactive REPL mode (bool)
//   - GRFC_NO_COLOR: disable colored output (bool)
//   - GRFC_BATCH: batch input file path (string)
//   - GRFC_CALIBRATION_PROFILE: path to calibration profile (string)
//   - GRFC_HEX: display factors in hexadecimal (bool)
//   - GRFC_OUTPUT_FILE: save the result to this file (string)
func applyEnvOverrides(cfg *Config, kernelVariant *string, fs *flag.FlagSet) {
	applyNumericOverrides(cfg, fs)
	applyStringOverrides(cfg, kernelVariant, fs)
	applyBooleanOverrides(cfg, fs)
}

func applyNumericOverrides(cfg *Config, fs *flag.FlagSet) {
	if !isFlagSet(fs, "precision") {
		cfg.Precision = getEnvUint("PRECISION", cfg.Precision)
	}
	if !isFlagSet(fs, "samples") {
		cfg.Samples = getEnvInt("SAMPLES", cfg.Samples)
	}
	if !isFlagSet(fs, "m-span") {
		cfg.MSpan = getEnvInt("M_SPAN", cfg.MSpan)
	}
	if !isFlagSet(fs, "sigma") {
		cfg.Sigma = getEnvFloat64("SIGMA", cfg.Sigma)
	}
	if !isFlagSet(fs, "j") {
		cfg.J = getEnvInt("J", cfg.J)
	}
	if !isFlagSet(fs, "threshold") {
		cfg.Threshold = getEnvFloat64("THRESHOLD", cfg.Threshold)
	}
	if !isFlagSet(fs, "k-lo") {
		cfg.KLo = getEnvFloat64("K_LO", cfg.KLo)
	}
	if !isFlagSet(fs, "k-hi") {
		cfg.KHi = getEnvFloat64("K_HI", cfg.KHi)
	}
	if !isFlagSet(fs, "search-timeout-ms") {
		cfg.SearchTimeoutMS = getEnvInt("SEARCH_TIMEOUT_MS", cfg.SearchTimeoutMS)
	}
	if !isFlagSet(fs, "newton-iterations") {
		cfg.NewtonIterations = getEnvInt("NEWTON_ITERATIONS", cfg.NewtonIterations)
	}
	if !isFlagSet(fs, "workers") {
		cfg.Workers = getEnvInt("WORKERS", cfg.Workers)
	}
}

func applyStringOverrides(cfg *Config, kernelVariant *string, fs *flag.FlagSet) {
	if !isFlagSet(fs, "kernel-variant") {
		*kernelVariant = getEnvString("KERNEL_VARIANT", *kernelVariant)
	}
	if !isFlagSet(fs, "port") {
		cfg.Port = getEnvString("PORT", cfg.Port)
	}
	if !isFlagSet(fs, "batch") {
		cfg.BatchFile = getEnvString("BATCH", cfg.BatchFile)
	}
	if !isFlagSet(fs, "calibration-profile") {
		cfg.CalibrationProfile = getEnvString("CALIBRATION_PROFILE", cfg.CalibrationProfile)
	}
	if !isFlagSet(fs, "output-file") {
		cfg.OutputFile = getEnvString("OUTPUT_FILE", cfg.OutputFile)
	}
}

func applyBooleanOverrides(cfg *Config, fs *flag.FlagSet) {
	if !isFlagSet(fs, "allow-whitelisted-challenge") {
		cfg.AllowWhitelistedChallenge = getEnvBool("ALLOW_WHITELISTED_CHALLENGE", cfg.AllowWhitelistedChallenge)
	}
	if !isFlagSet(fs, "stability-check") {
		cfg.StabilityCheck = getEnvBool("STABILITY_CHECK", cfg.StabilityCheck)
	}
	if !isFlagSet(fs, "server") {
		cfg.ServerMode = getEnvBool("SERVER", cfg.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		cfg.JSONOutput = getEnvBool("JSON", cfg.JSONOutput)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		cfg.Quiet = getEnvBool("QUIET", cfg.Quiet)
	}
	if !isFlagSet(fs, "v") {
		cfg.Verbose = getEnvBool("VERBOSE", cfg.Verbose)
	}
	if !isFlagSet(fs, "interactive") {
		cfg.Interactive = getEnvBool("INTERACTIVE", cfg.Interactive)
	}
	if !isFlagSet(fs, "no-color") {
		cfg.NoColor = getEnvBool("NO_COLOR", cfg.NoColor)
	}
	if !isFlagSet(fs, "hex") {
		cfg.HexOutput = getEnvBool("HEX", cfg.HexOutput)
	}
}
