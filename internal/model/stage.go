// Package model provides the data types shared by the corpus locator, the
// compiler invoker, the aggregator, the reporter and the runner.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxStageRange caps how many stages a single "from-to" argument may expand to.
const MaxStageRange = 1000

// StageRef identifies one stage of the corpus and an optional variant.
// The variant only affects where the corpus files live; classification
// rules are the same for every variant.
type StageRef struct {
	Stage   int
	Variant string
}

// String renders the ref the way it appears in console output: "4" or "4 loops".
func (r StageRef) String() string {
	if r.Variant == "" {
		return strconv.Itoa(r.Stage)
	}
	return fmt.Sprintf("%d %s", r.Stage, r.Variant)
}

// Arg renders the ref in command-line form: "4" or "4:loops".
func (r StageRef) Arg() string {
	if r.Variant == "" {
		return strconv.Itoa(r.Stage)
	}
	return fmt.Sprintf("%d:%s", r.Stage, r.Variant)
}

// ParseStageRef parses a single command-line stage argument.
//
// Accepted forms:
//   - "4"        stage 4, no variant
//   - "4:loops"  stage 4, variant "loops"
//   - "1-5"      stages 1 through 5 inclusive, no variant
func ParseStageRef(arg string) ([]StageRef, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("empty stage argument")
	}

	if num, variant, ok := strings.Cut(arg, ":"); ok {
		n, err := parseStageNumber(num)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", arg, err)
		}
		if err := ValidateVariant(variant); err != nil {
			return nil, fmt.Errorf("stage %q: %w", arg, err)
		}
		return []StageRef{{Stage: n, Variant: variant}}, nil
	}

	if from, to, ok := strings.Cut(arg, "-"); ok {
		lo, err := parseStageNumber(from)
		if err != nil {
			return nil, fmt.Errorf("stage range %q: %w", arg, err)
		}
		hi, err := parseStageNumber(to)
		if err != nil {
			return nil, fmt.Errorf("stage range %q: %w", arg, err)
		}
		if hi < lo {
			return nil, fmt.Errorf("stage range %q: end is before start", arg)
		}
		if hi-lo >= MaxStageRange {
			return nil, fmt.Errorf("stage range %q: more than %d stages", arg, MaxStageRange)
		}
		refs := make([]StageRef, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			refs = append(refs, StageRef{Stage: n})
		}
		return refs, nil
	}

	n, err := parseStageNumber(arg)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", arg, err)
	}
	return []StageRef{{Stage: n}}, nil
}

// ParseStageRefs parses every argument and concatenates the results,
// dropping exact duplicates while keeping the first occurrence.
func ParseStageRefs(args []string) ([]StageRef, error) {
	var refs []StageRef
	seen := make(map[StageRef]bool)
	for _, arg := range args {
		parsed, err := ParseStageRef(arg)
		if err != nil {
			return nil, err
		}
		for _, r := range parsed {
			if seen[r] {
				continue
			}
			seen[r] = true
			refs = append(refs, r)
		}
	}
	return refs, nil
}

// ValidateVariant checks that a variant name is safe to use as a single
// directory component.
func ValidateVariant(variant string) error {
	if variant == "" {
		return fmt.Errorf("variant name is empty")
	}
	if variant == "." || variant == ".." {
		return fmt.Errorf("variant name %q is not allowed", variant)
	}
	for _, c := range variant {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.':
		default:
			return fmt.Errorf("variant name %q contains invalid character %q", variant, c)
		}
	}
	return nil
}

func parseStageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < 1 {
		return 0, fmt.Errorf("stage must be >= 1")
	}
	return n, nil
}
