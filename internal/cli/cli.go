// Package cli provides command-line interface functionality for stagerun.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/internal/output"
)

// Version is set at build time.
var Version = "dev"

// Run executes the CLI with the given arguments and returns an exit code.
// SIGINT and SIGTERM cancel the run; in-flight compilers are killed.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, args, output.New())
}

// Execute runs the CLI against the given streams with colors disabled.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, output.NewWithWriters(stdout, stderr, false))
}

func execute(ctx context.Context, args []string, w *output.Writer) int {
	cmd := NewRootCommand(w)
	cmd.SetArgs(args)
	cmd.SetOut(w.Stdout())
	cmd.SetErr(w.Stderr())

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitSuccess
	}

	var shown *reportedError
	if !stderrors.As(err, &shown) {
		w.ErrorPrefix("%v", err)
	}

	var he *errors.HarnessError
	if !stderrors.As(err, &he) {
		// Flag and argument errors raised by cobra itself.
		w.Hint("Run 'stagerun --help' for usage.")
		return errors.ExitConfigError
	}
	return errors.GetExitCode(err)
}

// reportedError marks an error whose diagnostics were already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// errTestsFailed is returned when the run completed but not every test passed.
var errTestsFailed = &reportedError{err: errors.New("one or more tests failed")}
