package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings parses JSON config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	warnings := detectUnknownFields(data)

	return &cfg, warnings, nil
}

// detectUnknownFields compares raw JSON with known struct fields.
// Warnings are sorted so repeated loads print them in the same order.
func detectUnknownFields(data []byte) []string {
	var warnings []string

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	knownTopLevel := getJSONFields(reflect.TypeOf(Config{}))
	for key := range raw {
		if key == "$schema" {
			continue
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if stagesRaw, ok := raw["stages"]; ok {
		warnings = append(warnings, checkStagesUnknownFields(stagesRaw)...)
	}

	sort.Strings(warnings)
	return warnings
}

func checkStagesUnknownFields(data json.RawMessage) []string {
	var warnings []string

	var stages []json.RawMessage
	if err := json.Unmarshal(data, &stages); err != nil {
		return []string{"internal: failed to re-parse stages for unknown field detection"}
	}

	knownStageFields := getJSONFields(reflect.TypeOf(StageConfig{}))
	for i, stageRaw := range stages {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(stageRaw, &fields); err != nil {
			continue
		}
		for key := range fields {
			if !knownStageFields[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in stages[%d] (ignored)", key, i))
			}
		}
	}

	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = true
		}
	}
	return fields
}
