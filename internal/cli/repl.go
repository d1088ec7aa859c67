// Package cli provides the REPL (Read-Eval-Print Loop) functionality for
// interactive factorization sessions.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agbru/grfc/internal/engine"
	"github.com/agbru/grfc/internal/kernel"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultKernel is the kernel variant to select on startup.
	DefaultKernel kernel.Variant
	// Timeout is the maximum duration for each factor attempt.
	Timeout time.Duration
	// Engine carries the sampling parameters (samples, m_span, sigma, j,
	// threshold, k_lo/k_hi, ...) every "factor" command reuses.
	Engine engine.Config
	// HexOutput displays factors in hexadecimal format.
	HexOutput bool
}

// REPL represents an interactive factorization session.
type REPL struct {
	config        REPLConfig
	currentKernel kernel.Variant
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a new REPL instance.
func NewREPL(config REPLConfig) *REPL {
	k := config.DefaultKernel
	if k != kernel.Gaussian && k != kernel.Dirichlet {
		k = kernel.Gaussian
	}
	return &REPL{
		config:        config,
		currentKernel: k,
		in:            os.Stdin,
		out:           os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive REPL session. It continuously reads user
// input and processes commands until the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ColorGreen()+"grfc> "+ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return // Exit command received
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sGeometric Resonance Factorization - Interactive Mode%s    %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  %sfactor <N>%s    - Factor N with the current kernel\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %skernel <name>%s - Change kernel variant (%s)\n", ColorYellow(), ColorReset(), r.getKernelList())
	fmt.Fprintf(r.out, "  %scompare <N>%s   - Run N through both kernel variants\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %slist%s          - List available kernel variants\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shex%s           - Toggle hexadecimal display\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display current configuration\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s  - Exit interactive mode\n", ColorYellow(), ColorReset(), ColorYellow(), ColorReset())
}

// getKernelList returns a comma-separated list of available kernel variants.
func (r *REPL) getKernelList() string {
	return fmt.Sprintf("%s, %s", kernel.Gaussian, kernel.Dirichlet)
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "factor", "f", "calc", "c":
		r.cmdFactor(args)
	case "kernel", "k":
		r.cmdKernel(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "list", "ls":
		r.cmdList()
	case "hex":
		r.cmdHex()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		// Try to interpret as a number for quick factorization.
		if n, ok := new(big.Int).SetString(cmd, 10); ok {
			r.factor(n)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), cmd, ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
		}
	}

	return true
}

// cmdFactor handles the "factor" command.
func (r *REPL) cmdFactor(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: factor <N>%s\n", ColorRed(), ColorReset())
		return
	}

	n, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}

	r.factor(n)
}

// factor runs one Factor call against N with the current kernel and
// displays a spinner while the sampler works.
func (r *REPL) factor(n *big.Int) {
	cfg := r.config.Engine
	cfg.KernelVariant = r.currentKernel

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Factoring N(%s%s%s) with the %s%s%s kernel...\n",
		ColorMagenta(), n.String(), ColorReset(),
		ColorCyan(), r.currentKernel, ColorReset())

	progressChan := make(chan ProgressUpdate, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	res := engine.Factor(ctx, n, cfg)
	close(progressChan)
	wg.Wait()

	DisplayResult(res, n, true, true, true, r.out)
	if res.Success && r.config.HexOutput {
		fmt.Fprintf(r.out, "P = %s0x%s%s\nQ = %s0x%s%s\n",
			ColorGreen(), res.P.Text(16), ColorReset(),
			ColorGreen(), res.Q.Text(16), ColorReset())
	}
	fmt.Fprintln(r.out)
}

// cmdKernel handles the "kernel" command.
func (r *REPL) cmdKernel(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: kernel <name>%s\n", ColorRed(), ColorReset())
		fmt.Fprintf(r.out, "Available kernels: %s\n", r.getKernelList())
		return
	}

	name := kernel.Variant(strings.ToLower(args[0]))
	if name != kernel.Gaussian && name != kernel.Dirichlet {
		fmt.Fprintf(r.out, "%sUnknown kernel: %s%s\n", ColorRed(), args[0], ColorReset())
		fmt.Fprintf(r.out, "Available kernels: %s\n", r.getKernelList())
		return
	}

	r.currentKernel = name
	fmt.Fprintf(r.out, "Kernel changed to: %s%s%s\n", ColorGreen(), name, ColorReset())
}

// cmdCompare handles the "compare" command: runs N through both kernel
// variants and reports which succeeded and how long each took.
func (r *REPL) cmdCompare(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: compare <N>%s\n", ColorRed(), ColorReset())
		return
	}

	n, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ColorRed(), args[0], ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for N(%s):%s\n", ColorBold(), n.String(), ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ColorCyan(), ColorReset())

	for _, variant := range []kernel.Variant{kernel.Gaussian, kernel.Dirichlet} {
		cfg := r.config.Engine
		cfg.KernelVariant = variant

		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		res := engine.Factor(ctx, n, cfg)
		cancel()

		status := ColorGreen() + "✓ found" + ColorReset()
		if !res.Success {
			status = ColorRed() + "✗ " + string(res.Reason) + ColorReset()
		}

		fmt.Fprintf(r.out, "  %s%-10s%s: %s%12s%s %s\n",
			ColorYellow(), variant, ColorReset(),
			ColorCyan(), FormatExecutionDuration(res.Elapsed), ColorReset(),
			status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ColorCyan(), ColorReset())
}

// cmdList handles the "list" command.
func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable kernel variants:%s\n", ColorBold(), ColorReset())
	for _, variant := range []kernel.Variant{kernel.Gaussian, kernel.Dirichlet} {
		marker := "  "
		if variant == r.currentKernel {
			marker = ColorGreen() + "► " + ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s\n", marker, ColorYellow(), variant, ColorReset())
	}
	fmt.Fprintln(r.out)
}

// cmdHex toggles hexadecimal output mode.
func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	status := "disabled"
	if r.config.HexOutput {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ColorGreen(), status, ColorReset())
}

// cmdStatus displays current REPL configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Kernel:         %s%s%s\n", ColorCyan(), r.currentKernel, ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	fmt.Fprintf(r.out, "  Samples:        %s%d%s\n", ColorCyan(), r.config.Engine.Samples, ColorReset())
	fmt.Fprintf(r.out, "  M-span:         %s%d%s\n", ColorCyan(), r.config.Engine.MSpan, ColorReset())
	hexStatus := "no"
	if r.config.HexOutput {
		hexStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Hexadecimal:    %s%s%s\n", ColorCyan(), hexStatus, ColorReset())
	fmt.Fprintln(r.out)
}
