package model

import (
	"slices"
	"time"
)

// TestCase is one source file of the corpus.
type TestCase struct {
	Path     string   // Full path passed to the compiler
	Name     string   // File name as shown in reports
	Category Category // Expected outcome
	Stage    StageRef // Owning stage
}

// TestResult is the observed outcome of running the compiler on a TestCase.
type TestResult struct {
	Case     TestCase
	Status   Status
	Passed   bool
	Duration time.Duration
}

// Classify maps a category and termination status to pass/fail.
// Only StatusExited classifies; for every other kind ok is false and the
// caller must escalate instead of counting the file.
//
// A valid file passes iff the compiler exited 0; an invalid file passes
// iff it exited with any other code.
func Classify(cat Category, s Status) (passed, ok bool) {
	if s.Kind != StatusExited {
		return false, false
	}
	if cat == Valid {
		return s.Code == 0, true
	}
	return s.Code != 0, true
}

// StageSummary holds the counts of one stage (and variant) of a run.
type StageSummary struct {
	Stage    StageRef
	Passed   int
	Total    int
	TimedOut int      // Files killed after the time bound (counted in Total, never in Passed)
	Failed   []string // Names of files that did not pass, sorted
	Err      error    // Non-nil if the stage was aborted
}

// Aborted reports whether the stage ended in the StageFailed state.
func (s StageSummary) Aborted() bool {
	return s.Err != nil
}

// OK reports whether every file of the stage passed and the stage completed.
func (s StageSummary) OK() bool {
	return s.Err == nil && s.Passed == s.Total
}

// RunSummary is the outcome of one harness invocation. Its counts are
// derived from Stages so they always equal the component-wise sum.
type RunSummary struct {
	Stages []StageSummary
}

// Passed returns the sum of passed counts across stages.
func (r RunSummary) Passed() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Passed
	}
	return n
}

// Total returns the sum of totals across stages.
func (r RunSummary) Total() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Total
	}
	return n
}

// Aborted returns the stages that ended in the StageFailed state.
func (r RunSummary) Aborted() []StageSummary {
	var out []StageSummary
	for _, s := range r.Stages {
		if s.Aborted() {
			out = append(out, s)
		}
	}
	return out
}

// OK reports whether the run passed: every counted test passed and no stage aborted.
func (r RunSummary) OK() bool {
	return r.Passed() == r.Total() && len(r.Aborted()) == 0
}

// Clone returns a deep copy safe to hand to other goroutines.
func (r RunSummary) Clone() RunSummary {
	stages := make([]StageSummary, len(r.Stages))
	for i, s := range r.Stages {
		s.Failed = slices.Clone(s.Failed)
		stages[i] = s
	}
	return RunSummary{Stages: stages}
}
