package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadWithWarnings_UnknownRootField(t *testing.T) {
	data := []byte(`{
		"compiler": "./cc",
		"paralel": 4
	}`)

	cfg, warnings, err := LoadWithWarnings("test.json", data)
	if err != nil {
		t.Fatalf("LoadWithWarnings() error = %v", err)
	}
	if cfg.Compiler != "./cc" {
		t.Errorf("Compiler = %q, want %q", cfg.Compiler, "./cc")
	}

	want := []string{`unknown field "paralel" at root level (ignored)`}
	if diff := cmp.Diff(want, warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithWarnings_SchemaFieldIgnored(t *testing.T) {
	data := []byte(`{
		"$schema": "../schema/config.schema.json",
		"corpus": "tests"
	}`)

	_, warnings, err := LoadWithWarnings("test.json", data)
	if err != nil {
		t.Fatalf("LoadWithWarnings() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestLoadWithWarnings_UnknownStageField(t *testing.T) {
	data := []byte(`{
		"stages": [
			{"stage": 1},
			{"stage": 4, "varient": "loops", "skip": true}
		]
	}`)

	cfg, warnings, err := LoadWithWarnings("test.json", data)
	if err != nil {
		t.Fatalf("LoadWithWarnings() error = %v", err)
	}
	if len(cfg.Stages) != 2 {
		t.Fatalf("len(Stages) = %d, want 2", len(cfg.Stages))
	}

	want := []string{
		`unknown field "skip" in stages[1] (ignored)`,
		`unknown field "varient" in stages[1] (ignored)`,
	}
	if diff := cmp.Diff(want, warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithWarnings_SortedAcrossLevels(t *testing.T) {
	data := []byte(`{"zeta": 1, "alpha": 2, "stages": [{"stage": 1, "extra": 0}]}`)

	_, warnings, err := LoadWithWarnings("test.json", data)
	if err != nil {
		t.Fatalf("LoadWithWarnings() error = %v", err)
	}
	if len(warnings) != 3 {
		t.Fatalf("warnings = %v, want 3 entries", warnings)
	}
	for i := 1; i < len(warnings); i++ {
		if warnings[i-1] > warnings[i] {
			t.Errorf("warnings not sorted: %v", warnings)
		}
	}
}

func TestLoadWithWarnings_InvalidJSON(t *testing.T) {
	_, _, err := LoadWithWarnings("broken.json", []byte(`{"compiler": `))
	if err == nil {
		t.Fatal("LoadWithWarnings() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error = %q, want path in message", err.Error())
	}
}

func TestGetJSONFields(t *testing.T) {
	fields := getJSONFields(reflect.TypeOf(StageConfig{}))
	want := map[string]bool{"stage": true, "variant": true}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("getJSONFields mismatch (-want +got):\n%s", diff)
	}
}
