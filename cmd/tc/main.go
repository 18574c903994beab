// Package main implements the tc CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/amonks/timeclock/tracker"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "tc",
	Short:         "Timeclock - clock in and out of assigned tasks",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log session transitions to stderr")
}

func reportError(w io.Writer, err error) {
	if tracker.IsValidation(err) {
		fmt.Fprintf(w, "validation: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// validationf reports a locally refused command.
func validationf(format string, args ...any) error {
	return &tracker.ValidationError{Err: fmt.Errorf(format, args...)}
}
