// Package report renders test outcomes to the console and to machine-readable
// run reports.
package report

import (
	"strconv"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/stagerun/internal/model"
	"github.com/AndreyAkinshin/stagerun/internal/output"
)

// Status words used in the summary table and run reports.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusAborted = "aborted"
)

// Reporter is the console sink for a run. It formats what it is given and
// never changes counts. Calls are serialized so per-file lines from
// concurrent workers never interleave.
//
// Line formats:
//
//	Success,<name>
//	Failed,<name>
//	Passed <P> / <T> tests for stage <N>[ <variant>]
//	PASSED: <P> / <T> tests succeeded
//	FAILED: <P> / <T> tests succeeded
type Reporter struct {
	mu  sync.Mutex
	out *output.Writer
}

// New creates a Reporter writing through w.
func New(w *output.Writer) *Reporter {
	return &Reporter{out: w}
}

// StageStart announces that the files of one category of a stage are about
// to run. Suppressed in quiet mode.
func (r *Reporter) StageStart(ref model.StageRef, cat model.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.Info("Running %s tests for stage %s", cat, ref)
}

// File prints the outcome of one test file.
func (r *Reporter) File(res model.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.Passed {
		r.out.Success("Success,%s", res.Case.Name)
	} else {
		r.out.Failure("Failed,%s", res.Case.Name)
	}
}

// Stage prints the summary line of a finalized stage.
func (r *Reporter) Stage(sum model.StageSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.Println("Passed %d / %d tests for stage %s", sum.Passed, sum.Total, sum.Stage)
}

// Banner prints the final line of the run. The run is reported as FAILED
// when any counted test failed or any stage was aborted.
func (r *Reporter) Banner(run model.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.OK() {
		r.out.Success("PASSED: %d / %d tests succeeded", run.Passed(), run.Total())
	} else {
		r.out.Failure("FAILED: %d / %d tests succeeded", run.Passed(), run.Total())
	}
}

// Diagnostic prints a harness-fatal condition to stderr.
func (r *Reporter) Diagnostic(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.ErrorPrefix("%v", err)
}

// Table prints a per-stage overview of the run.
func (r *Reporter) Table(run model.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := cases.Title(language.English)
	rows := make([][]string, 0, len(run.Stages))
	for _, s := range run.Stages {
		variant := s.Stage.Variant
		if variant == "" {
			variant = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Stage.Stage),
			variant,
			strconv.Itoa(s.Passed),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.TimedOut),
			title.String(StageStatus(s)),
		})
	}
	r.out.Section("Summary")
	r.out.Table([]string{"Stage", "Variant", "Passed", "Total", "Timeouts", "Status"}, rows)
	if n := len(run.Aborted()); n > 0 {
		r.out.Println("%d stage(s) aborted", n)
	}
}

// StageStatus returns the status word of a stage summary.
func StageStatus(s model.StageSummary) string {
	switch {
	case s.Aborted():
		return StatusAborted
	case s.Passed == s.Total:
		return StatusPassed
	default:
		return StatusFailed
	}
}
