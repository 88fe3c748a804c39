package stagerun_test

import (
	"testing"

	"github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/pkg/stagerun"
)

func TestExitCodeValues(t *testing.T) {
	tests := []struct {
		name     string
		constant int
		expected int
	}{
		{"ExitSuccess", stagerun.ExitSuccess, 0},
		{"ExitFailure", stagerun.ExitFailure, 1},
		{"ExitConfigError", stagerun.ExitConfigError, 2},
		{"ExitEnvError", stagerun.ExitEnvError, 3},
		{"ExitInterrupted", stagerun.ExitInterrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("stagerun.%s = %d, want %d", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

// TestExitCodeConsistency prevents drift between the public constants and
// the internal errors package.
func TestExitCodeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
	}{
		{"Success", stagerun.ExitSuccess, errors.ExitSuccess},
		{"Failure/TestFailure", stagerun.ExitFailure, errors.ExitTestFailure},
		{"ConfigError", stagerun.ExitConfigError, errors.ExitConfigError},
		{"EnvError/EnvironmentError", stagerun.ExitEnvError, errors.ExitEnvironmentError},
		{"Interrupted", stagerun.ExitInterrupted, errors.ExitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.internal {
				t.Errorf("exit code mismatch: stagerun constant = %d, errors constant = %d",
					tt.public, tt.internal)
			}
		})
	}
}
