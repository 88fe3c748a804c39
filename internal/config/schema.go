// Package config loads and validates .stagerun configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// Config represents a .stagerun/config.{json,yaml,yml} file.
// Zero values mean "not set"; command-line flags take precedence over any
// value set here.
type Config struct {
	Compiler    string        `json:"compiler,omitempty"`
	Corpus      string        `json:"corpus,omitempty"`
	Extension   string        `json:"extension,omitempty"`
	Workers     int           `json:"workers,omitempty"`
	Timeout     Duration      `json:"timeout,omitempty"`
	StopOnError bool          `json:"stop_on_error,omitempty"`
	Report      string        `json:"report,omitempty"`
	Stages      []StageConfig `json:"stages,omitempty"`
}

// StageConfig selects one stage, optionally narrowed to a variant.
type StageConfig struct {
	Stage   int    `json:"stage"`
	Variant string `json:"variant,omitempty"`
}

// Ref returns the stage reference described by s.
func (s StageConfig) Ref() model.StageRef {
	return model.StageRef{Stage: s.Stage, Variant: s.Variant}
}

// StageRefs returns the configured stages in file order.
func (c *Config) StageRefs() []model.StageRef {
	refs := make([]model.StageRef, 0, len(c.Stages))
	for _, s := range c.Stages {
		refs = append(refs, s.Ref())
	}
	return refs
}

// Duration is a time.Duration that reads and writes as a Go duration
// string ("10s", "1m30s"). A bare number is taken as seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON encodes d as a duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "10s"-style strings and plain numbers of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(val * float64(time.Second))
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
	return nil
}
