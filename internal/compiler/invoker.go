// Package compiler launches the compiler under test, one process per file.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// waitDelay bounds how long Wait keeps draining I/O after the process has
// been killed, so a grandchild holding the output pipe cannot hang the run.
const waitDelay = 2 * time.Second

// Invoker runs the compiler executable against single source files.
// The compiler receives the file path as its only argument; its output is
// discarded unless SetOutput is used.
type Invoker struct {
	path    string
	timeout time.Duration
	output  io.Writer
	log     *zap.Logger
}

// New creates an Invoker for the compiler at path. A timeout <= 0 disables
// the per-file bound; the CLI never does that, but tests may.
func New(path string, timeout time.Duration) *Invoker {
	return &Invoker{
		path:    path,
		timeout: timeout,
		log:     zap.NewNop(),
	}
}

// SetOutput forwards compiler stdout and stderr to w. Nil discards them.
func (inv *Invoker) SetOutput(w io.Writer) {
	inv.output = w
}

// SetLogger sets the logger used for per-invocation debug events.
func (inv *Invoker) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	inv.log = l
}

// Path returns the compiler executable path.
func (inv *Invoker) Path() string {
	return inv.path
}

// Timeout returns the per-file time bound.
func (inv *Invoker) Timeout() time.Duration {
	return inv.timeout
}

// Check verifies that the compiler can be resolved to an executable.
func (inv *Invoker) Check() error {
	if _, err := exec.LookPath(inv.path); err != nil {
		return fmt.Errorf("compiler %q is not executable: %w", inv.path, err)
	}
	return nil
}

// Invoke runs the compiler on file and waits for it to terminate.
//
// The result is Exited(code) when the process ran to completion (code -1 if
// it was killed by a signal), SpawnFailed when it could not be started,
// TimedOut when it exceeded the time bound and was killed, and Canceled when
// ctx was done before it finished.
func (inv *Invoker) Invoke(ctx context.Context, file string) model.Status {
	runCtx := ctx
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.path, file)
	if inv.output != nil {
		cmd.Stdout = inv.output
		cmd.Stderr = inv.output
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return model.Canceled(ctx.Err())
		}
		inv.log.Debug("compiler spawn failed", zap.String("file", file), zap.Error(err))
		return model.SpawnFailed(err)
	}

	err := cmd.Wait()
	status := inv.status(ctx, runCtx, cmd, err)
	inv.log.Debug("compiler finished",
		zap.String("file", file),
		zap.Stringer("status", status),
		zap.Duration("duration", time.Since(start)))
	return status
}

func (inv *Invoker) status(ctx, runCtx context.Context, cmd *exec.Cmd, err error) model.Status {
	if err == nil {
		return model.Exited(0)
	}
	if ctx.Err() != nil {
		return model.Canceled(ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return model.TimedOut()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return model.Exited(exitErr.ExitCode())
	}
	// Process exited but I/O draining hit WaitDelay.
	if cmd.ProcessState != nil {
		return model.Exited(cmd.ProcessState.ExitCode())
	}
	return model.SpawnFailed(fmt.Errorf("wait: %w", err))
}
