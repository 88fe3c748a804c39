// Package stagerun provides public constants for scripts and CI jobs that
// drive the stagerun harness.
package stagerun

// Exit codes returned by the stagerun CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every requested test passed.
	ExitSuccess = 0

	// ExitFailure indicates at least one test failed classification.
	ExitFailure = 1

	// ExitConfigError indicates a usage or configuration error (bad stage argument, invalid config, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates the environment is broken: a corpus directory is
	// missing or the compiler under test could not be started.
	ExitEnvError = 3

	// ExitInterrupted indicates the run was aborted by an operator signal.
	ExitInterrupted = 130
)
