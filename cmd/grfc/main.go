// Command grfc is the command-line entry point for the Geometric
// Resonance Factorization Core.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/grfc/internal/app"
	apperrors "github.com/agbru/grfc/internal/errors"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	if app.HasVersionFlag(args[1:]) {
		app.PrintVersion(out)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, errOut)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), out)
}
