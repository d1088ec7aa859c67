// Package cli provides output utilities for exporting factorization results.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/grfc/internal/engine"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// HexOutput displays the factors in hexadecimal format.
	HexOutput bool
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows the full factor values.
	Verbose bool
	// Concise enables the factor pair display when true (disabled by default).
	Concise bool
}

// WriteResultToFile writes a Factor outcome to a file.
//
// Parameters:
//   - res: The engine result.
//   - N: The value that was factored.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(res engine.Result, N *big.Int, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Geometric Resonance Factorization Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Kernel variant: %s\n", res.Config.KernelVariant)
	fmt.Fprintf(file, "# Duration: %s\n", res.Elapsed)
	fmt.Fprintf(file, "# N: %s\n", N.String())
	fmt.Fprintf(file, "# N bits: %d\n", N.BitLen())
	fmt.Fprintf(file, "# Samples: %d\n", res.Samples)
	fmt.Fprintln(file)

	if !res.Success {
		fmt.Fprintf(file, "FAILED: %s\n", res.Reason)
		return nil
	}

	if config.HexOutput {
		fmt.Fprintf(file, "N = P * Q [hex]\nP = 0x%s\nQ = 0x%s\n", res.P.Text(16), res.Q.Text(16))
	} else {
		fmt.Fprintf(file, "N = P * Q\nP = %s\nQ = %s\n", res.P.String(), res.Q.String())
	}

	return nil
}

// FormatQuietResult formats a result for quiet mode output: a single line
// suitable for scripting ("P Q" on success, "FAILED: reason" otherwise).
//
// Parameters:
//   - res: The engine result.
//   - hexOutput: Whether to format the factors as hexadecimal.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(res engine.Result, hexOutput bool) string {
	if !res.Success {
		return fmt.Sprintf("FAILED: %s", res.Reason)
	}
	if hexOutput {
		return fmt.Sprintf("0x%s 0x%s", res.P.Text(16), res.Q.Text(16))
	}
	return fmt.Sprintf("%s %s", res.P.String(), res.Q.String())
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
func DisplayQuietResult(out io.Writer, res engine.Result, hexOutput bool) {
	fmt.Fprintln(out, FormatQuietResult(res, hexOutput))
}

// DisplayResultWithConfig displays a Factor outcome with the given output
// configuration. This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - res: The engine result.
//   - N: The value that was factored.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, res engine.Result, N *big.Int, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, res, config.HexOutput)
	} else {
		DisplayResult(res, N, config.Verbose, true, config.Concise, out)

		if res.Success && config.HexOutput {
			fmt.Fprintf(out, "\n%sHexadecimal format:%s\n", ColorBold(), ColorReset())
			fmt.Fprintf(out, "P = %s0x%s%s\nQ = %s0x%s%s\n",
				ColorGreen(), res.P.Text(16), ColorReset(),
				ColorGreen(), res.Q.Text(16), ColorReset())
		}
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(res, N, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}

	return nil
}
