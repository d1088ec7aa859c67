package cli

import (
	"fmt"
	"io"
	"math/big"
	"runtime"

	"github.com/agbru/grfc/internal/config"
)

// PrintExecutionConfig displays the current execution configuration to the
// user. It shows the target N, timeout, environment details, and the
// sampling parameters that shape the search.
//
// Parameters:
//   - cfg: The application configuration.
//   - N: The value about to be factored.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.Config, N *big.Int, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Factoring %sN = %s%s (%d bits).\n",
		ColorMagenta(), N.String(), ColorReset(), N.BitLen())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
	writeOut(out, "Kernel: %s%s%s, samples=%s%d%s, m_span=%s%d%s, threshold=%s%.3f%s.\n",
		ColorCyan(), cfg.KernelVariant, ColorReset(),
		ColorCyan(), cfg.Samples, ColorReset(),
		ColorCyan(), cfg.MSpan, ColorReset(),
		ColorCyan(), cfg.Threshold, ColorReset())
}

// PrintExecutionMode displays the execution mode (single factorization vs a
// concurrent batch).
//
// Parameters:
//   - batchSize: The number of N values that will be factored. 1 means a
//     single value.
//   - out: The writer for standard output.
func PrintExecutionMode(batchSize int, out io.Writer) {
	var modeDesc string
	if batchSize > 1 {
		modeDesc = fmt.Sprintf("Concurrent batch of %s%d%s values", ColorGreen(), batchSize, ColorReset())
	} else {
		modeDesc = "Single factorization"
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
//
// Parameters:
//   - out: The destination writer.
//   - format: The format string (see fmt.Printf).
//   - a: Arguments for the format string.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
