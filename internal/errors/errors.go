// Package errors provides structured error types and exit codes for stagerun.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the harness process.
const (
	ExitSuccess          = 0   // Every test passed
	ExitTestFailure      = 1   // At least one test failed (or a runtime error)
	ExitConfigError      = 2   // Usage or configuration error
	ExitEnvironmentError = 3   // Corpus missing, compiler cannot be started
	ExitInterrupted      = 130 // Operator interrupt
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindCorpusNotFound
	KindSpawnFailed
	KindTimeout
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindCorpusNotFound:
		return "corpus not found"
	case KindSpawnFailed:
		return "spawn failed"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "runtime"
	}
}

// HarnessError is the base error type for stagerun.
//
// Stage-fatal kinds (KindCorpusNotFound, KindSpawnFailed) abort the stage they
// occur in. KindTimeout is fatal for a single file only. A compiler exit code
// that disagrees with the expected category is not an error at all; it is a
// failed test and never produces a HarnessError.
type HarnessError struct {
	Kind    ErrorKind
	Message string
	Stage   string // Stage label (e.g. "4" or "4 loops") if applicable
	File    string // Source file if applicable
	Cause   error  // Underlying error
}

func (e *HarnessError) Error() string {
	if e.Stage != "" && e.File != "" {
		return fmt.Sprintf("[stage %s] %s: %s", e.Stage, e.File, e.Message)
	}
	if e.Stage != "" {
		return fmt.Sprintf("[stage %s] %s", e.Stage, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *HarnessError) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindCorpusNotFound, KindSpawnFailed:
		return ExitEnvironmentError
	case KindCanceled:
		return ExitInterrupted
	default:
		return ExitTestFailure
	}
}

// WithStage returns a copy of e labelled with the given stage.
func (e *HarnessError) WithStage(stage string) *HarnessError {
	c := *e
	c.Stage = stage
	return &c
}

// New creates a new runtime error.
func New(message string) *HarnessError {
	return &HarnessError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *HarnessError {
	return &HarnessError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *HarnessError {
	return Config(fmt.Sprintf(format, args...))
}

// CorpusNotFound reports a missing stage/variant/category directory.
func CorpusNotFound(dir string) *HarnessError {
	return &HarnessError{
		Kind:    KindCorpusNotFound,
		Message: fmt.Sprintf("corpus directory not found: %s", dir),
	}
}

// SpawnFailed reports that the compiler executable could not be started.
func SpawnFailed(file string, cause error) *HarnessError {
	return &HarnessError{
		Kind:    KindSpawnFailed,
		Message: fmt.Sprintf("cannot start compiler: %v", cause),
		File:    file,
		Cause:   cause,
	}
}

// Timeout reports that the compiler exceeded its time bound on file.
func Timeout(file string, limit fmt.Stringer) *HarnessError {
	return &HarnessError{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("compiler did not finish within %s, process killed", limit),
		File:    file,
	}
}

// Canceled reports that the run was interrupted.
func Canceled(cause error) *HarnessError {
	return &HarnessError{
		Kind:    KindCanceled,
		Message: "run interrupted",
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *HarnessError {
	return &HarnessError{
		Kind:    KindRuntime,
		Message: fmt.Sprintf("%s: %v", message, err),
		Cause:   err,
	}
}

// IsKind reports whether err is or wraps a HarnessError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	found := false
	walk(err, func(he *HarnessError) {
		if he.Kind == kind {
			found = true
		}
	})
	return found
}

// GetExitCode returns the exit code for an error. For joined errors the most
// severe code wins: interrupted, then environment, then config, then runtime.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	code := ExitSuccess
	walk(err, func(he *HarnessError) {
		if c := he.ExitCode(); severity(c) > severity(code) {
			code = c
		}
	})
	if code == ExitSuccess {
		return ExitTestFailure
	}
	return code
}

func severity(code int) int {
	switch code {
	case ExitInterrupted:
		return 4
	case ExitEnvironmentError:
		return 3
	case ExitConfigError:
		return 2
	case ExitTestFailure:
		return 1
	default:
		return 0
	}
}

// walk visits every HarnessError in err's tree, following both
// Unwrap() error and Unwrap() []error.
func walk(err error, fn func(*HarnessError)) {
	if err == nil {
		return
	}
	var he *HarnessError
	if errors.As(err, &he) {
		fn(he)
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			walk(e, fn)
		}
	}
}
