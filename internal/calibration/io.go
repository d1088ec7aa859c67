package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/grfc/internal/cli"
	"github.com/agbru/grfc/internal/config"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestWorkers, bestMSpan int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sWorkers%s    │ %sM-Span%s │ %sExecution Time%s\n",
		cli.ColorUnderline(), cli.ColorReset(), cli.ColorUnderline(), cli.ColorReset(), cli.ColorUnderline(), cli.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s┼%s\n", strings.Repeat("─", 12), strings.Repeat("─", 9), strings.Repeat("─", 25))
	for _, res := range results {
		durationStr := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			durationStr = "< 1µs"
		}
		highlight := ""
		if res.Workers == bestWorkers && res.MSpan == bestMSpan {
			highlight = fmt.Sprintf(" %s(Optimal)%s", cli.ColorGreen(), cli.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-10d%s │ %-6d │ %s%s%s%s\n",
			cli.ColorCyan(), res.Workers, cli.ColorReset(), res.MSpan,
			cli.ColorYellow(), durationStr, cli.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints a one-line summary of the resolved sampler
// parameters.
func printCalibrationOutput(cfg config.Config, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: workers=%s%d%s, m_span=%s%d%s\n",
		cli.ColorGreen(), cli.ColorReset(),
		cli.ColorYellow(), cfg.Workers, cli.ColorReset(),
		cli.ColorYellow(), cfg.MSpan, cli.ColorReset())
}
