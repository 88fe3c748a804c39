package config

import (
	"fmt"

	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// Worker bounds accepted in configuration files.
const (
	MinWorkers = 1
	MaxWorkers = 256
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for
// non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if cfg.Workers != 0 && (cfg.Workers < MinWorkers || cfg.Workers > MaxWorkers) {
		return nil, &ValidationError{
			Field:   "workers",
			Message: fmt.Sprintf("must be between %d and %d", MinWorkers, MaxWorkers),
		}
	}

	if cfg.Timeout <= 0 {
		return nil, &ValidationError{Field: "timeout", Message: "must be greater than zero"}
	}

	seen := make(map[model.StageRef]bool)
	for i, s := range cfg.Stages {
		if err := validateStage(i, s); err != nil {
			return nil, err
		}
		if seen[s.Ref()] {
			warnings = append(warnings, fmt.Sprintf("stages[%d]: stage %s listed more than once (runs once)", i, s.Ref()))
		}
		seen[s.Ref()] = true
	}

	return warnings, nil
}

func validateStage(i int, s StageConfig) error {
	if s.Stage < 1 {
		return &ValidationError{
			Field:   fmt.Sprintf("stages[%d].stage", i),
			Message: "must be a positive integer",
		}
	}
	if s.Variant != "" {
		if err := model.ValidateVariant(s.Variant); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("stages[%d].variant", i),
				Message: err.Error(),
			}
		}
	}
	return nil
}
