// Package aggregate accumulates per-file test results into stage and run summaries.
package aggregate

import (
	"sort"
	"sync"

	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// Aggregator keeps a running tally per stage and the list of finalized
// stages. It is safe for concurrent use: results of one stage may be
// recorded from many goroutines.
//
// The run summary is never tracked as separate counters; it is derived
// from the finalized stages, so its totals always equal their sum.
type Aggregator struct {
	mu        sync.Mutex
	open      map[model.StageRef]*tally
	finalized []model.StageSummary
	done      map[model.StageRef]bool
}

type tally struct {
	passed   int
	total    int
	timedOut int
	failed   []string
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		open: make(map[model.StageRef]*tally),
		done: make(map[model.StageRef]bool),
	}
}

// Record adds a classified result to its stage's tally. Results with a
// status that does not classify count only when the process timed out:
// a timed-out file is part of the total but never passes. Any other
// unclassified status is ignored. Recording into a finalized stage is
// ignored as well; the return value tells whether the result was counted.
func (a *Aggregator) Record(res model.TestResult) bool {
	timedOut := res.Status.Kind == model.StatusTimedOut
	if res.Status.Kind != model.StatusExited && !timedOut {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ref := res.Case.Stage
	if a.done[ref] {
		return false
	}
	t := a.open[ref]
	if t == nil {
		t = &tally{}
		a.open[ref] = t
	}

	t.total++
	switch {
	case timedOut:
		t.timedOut++
		t.failed = append(t.failed, res.Case.Name)
	case res.Passed:
		t.passed++
	default:
		t.failed = append(t.failed, res.Case.Name)
	}
	return true
}

// FinalizeStage freezes the tally of ref, folds it into the run summary and
// returns it. err marks the stage as aborted; counts gathered so far are
// kept. Finalizing a stage twice returns the first summary unchanged.
func (a *Aggregator) FinalizeStage(ref model.StageRef, err error) model.StageSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done[ref] {
		for _, s := range a.finalized {
			if s.Stage == ref {
				return s
			}
		}
	}

	sum := model.StageSummary{Stage: ref, Err: err}
	if t := a.open[ref]; t != nil {
		sum.Passed = t.passed
		sum.Total = t.total
		sum.TimedOut = t.timedOut
		sum.Failed = append([]string(nil), t.failed...)
		sort.Strings(sum.Failed)
		delete(a.open, ref)
	}

	a.done[ref] = true
	a.finalized = append(a.finalized, sum)
	return sum
}

// Stage returns the current (possibly unfinalized) counts of ref.
func (a *Aggregator) Stage(ref model.StageRef) (passed, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t := a.open[ref]; t != nil {
		return t.passed, t.total
	}
	for _, s := range a.finalized {
		if s.Stage == ref {
			return s.Passed, s.Total
		}
	}
	return 0, 0
}

// Run returns a snapshot of the run summary over the stages finalized so far.
func (a *Aggregator) Run() model.RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	return model.RunSummary{Stages: a.finalized}.Clone()
}
