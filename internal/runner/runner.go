// Package runner drives a conformance run: stages in order, files of each
// category through a bounded worker pool.
package runner

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/stagerun/internal/aggregate"
	harnesserrors "github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/internal/model"
)

const (
	// MinWorkers is the smallest accepted worker count.
	MinWorkers = 1

	// MaxWorkers caps STAGERUN_PARALLEL and --jobs. Each worker holds one
	// compiler process, so beyond this the harness mostly measures the
	// scheduler.
	MaxWorkers = 256

	// ParallelEnv overrides the default worker count.
	ParallelEnv = "STAGERUN_PARALLEL"
)

// Locator lists the test files of one category of a stage.
type Locator interface {
	Locate(ref model.StageRef, cat model.Category) ([]model.TestCase, error)
}

// Invoker runs the compiler under test on one file.
type Invoker interface {
	Invoke(ctx context.Context, file string) model.Status
}

// Reporter receives every observable event of a run.
type Reporter interface {
	StageStart(ref model.StageRef, cat model.Category)
	File(res model.TestResult)
	Stage(sum model.StageSummary)
	Banner(run model.RunSummary)
	Diagnostic(err error)
}

// Options configures a run.
type Options struct {
	// Workers bounds concurrent compiler invocations. Zero means
	// STAGERUN_PARALLEL, or 1 when unset.
	Workers int

	// StopOnError skips the remaining stages once a stage is aborted.
	StopOnError bool

	// Timeout is the per-file limit enforced by the invoker. Used in
	// diagnostics only.
	Timeout time.Duration

	// Logger receives debug events and the STAGERUN_PARALLEL warning.
	// Nil discards them.
	Logger *zap.Logger
}

// Runner executes stages against a corpus.
type Runner struct {
	locator Locator
	invoker Invoker
	rep     Reporter
	opts    Options
	log     *zap.Logger
}

// New creates a Runner.
func New(locator Locator, invoker Invoker, rep Reporter, opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = getParallelWorkers(log)
	}
	opts.Workers = min(max(opts.Workers, MinWorkers), MaxWorkers)
	return &Runner{locator: locator, invoker: invoker, rep: rep, opts: opts, log: log}
}

// Workers returns the effective worker count.
func (r *Runner) Workers() int {
	return r.opts.Workers
}

// Run executes refs in the given order and returns the summary of every
// stage that was started, together with the joined stage-level errors.
// Test failures are not errors; check RunSummary.OK for the verdict.
//
// Each call starts from fresh counts, so running the same refs twice over an
// unchanged corpus yields equal summaries. A ref repeated within refs runs
// once, at its first position.
func (r *Runner) Run(ctx context.Context, refs []model.StageRef) (model.RunSummary, error) {
	agg := aggregate.New()
	seen := make(map[model.StageRef]bool, len(refs))
	var errs []error

	for _, ref := range refs {
		if seen[ref] {
			r.log.Debug("skipping repeated stage", zap.Stringer("stage", ref))
			continue
		}
		seen[ref] = true

		if ctx.Err() != nil {
			canceled := harnesserrors.Canceled(ctx.Err())
			errs = append(errs, canceled)
			r.rep.Diagnostic(canceled)
			break
		}

		r.log.Debug("stage started", zap.Stringer("stage", ref), zap.Int("workers", r.opts.Workers))
		err := r.runStage(ctx, agg, ref)
		if err != nil {
			errs = append(errs, err)
			r.rep.Diagnostic(err)
		}
		sum := agg.FinalizeStage(ref, err)
		r.rep.Stage(sum)
		r.log.Debug("stage finished",
			zap.Stringer("stage", ref),
			zap.Int("passed", sum.Passed),
			zap.Int("total", sum.Total),
			zap.Int("timed_out", sum.TimedOut),
			zap.Error(err))

		if harnesserrors.IsKind(err, harnesserrors.KindCanceled) {
			break
		}
		if err != nil && r.opts.StopOnError {
			r.log.Info("stopping after aborted stage", zap.Stringer("stage", ref))
			break
		}
	}

	run := agg.Run()
	r.rep.Banner(run)
	return run, combineErrors(errs)
}

// runStage runs the valid then the invalid files of ref. A non-nil error
// marks the stage aborted.
func (r *Runner) runStage(ctx context.Context, agg *aggregate.Aggregator, ref model.StageRef) error {
	for _, cat := range model.Categories {
		r.rep.StageStart(ref, cat)

		cases, err := r.locator.Locate(ref, cat)
		if err != nil {
			return stageError(err, ref)
		}
		r.log.Debug("located files",
			zap.Stringer("stage", ref),
			zap.Stringer("category", cat),
			zap.Int("count", len(cases)))

		if err := r.runFiles(ctx, agg, ref, cases); err != nil {
			return err
		}
		passed, total := agg.Stage(ref)
		r.log.Debug("category finished",
			zap.Stringer("stage", ref),
			zap.Stringer("category", cat),
			zap.Int("passed", passed),
			zap.Int("total", total))
	}
	return nil
}

// runFiles dispatches cases to at most Workers concurrent invocations.
// The first stage-fatal error cancels the remaining files of the stage.
func (r *Runner) runFiles(ctx context.Context, agg *aggregate.Aggregator, ref model.StageRef, cases []model.TestCase) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for _, tc := range cases {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return r.runFile(gctx, agg, ref, tc)
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		return harnesserrors.Canceled(ctx.Err()).WithStage(ref.String())
	}
	return err
}

func (r *Runner) runFile(ctx context.Context, agg *aggregate.Aggregator, ref model.StageRef, tc model.TestCase) error {
	if ctx.Err() != nil {
		return nil
	}

	start := time.Now()
	status := r.invoker.Invoke(ctx, tc.Path)
	res := model.TestResult{Case: tc, Status: status, Duration: time.Since(start)}

	switch status.Kind {
	case model.StatusExited:
		res.Passed, _ = model.Classify(tc.Category, status)
	case model.StatusTimedOut:
		r.rep.Diagnostic(harnesserrors.Timeout(tc.Name, r.opts.Timeout).WithStage(ref.String()))
	case model.StatusSpawnFailed:
		return harnesserrors.SpawnFailed(tc.Name, status.Reason).WithStage(ref.String())
	default:
		// Canceled: the file was never judged.
		return nil
	}

	if agg.Record(res) {
		r.rep.File(res)
	}
	r.log.Debug("file finished",
		zap.String("file", tc.Path),
		zap.Stringer("status", status),
		zap.Bool("passed", res.Passed),
		zap.Duration("duration", res.Duration))
	return nil
}

func stageError(err error, ref model.StageRef) error {
	var he *harnesserrors.HarnessError
	if errors.As(err, &he) {
		if he.Stage == "" {
			return he.WithStage(ref.String())
		}
		return he
	}
	return harnesserrors.Wrap(err, "locating test files").WithStage(ref.String())
}

// getParallelWorkers returns the worker count from STAGERUN_PARALLEL.
// Invalid values (non-numeric, <1, >256) log a warning and fall back to 1.
func getParallelWorkers(log *zap.Logger) int {
	env := os.Getenv(ParallelEnv)
	if env == "" {
		return MinWorkers
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		log.Warn("invalid worker count, using default",
			zap.String("env", ParallelEnv),
			zap.String("value", env),
			zap.Int("workers", MinWorkers))
		return MinWorkers
	}

	if n < MinWorkers || n > MaxWorkers {
		log.Warn("worker count out of range, using default",
			zap.String("env", ParallelEnv),
			zap.Int("value", n),
			zap.Int("min", MinWorkers),
			zap.Int("max", MaxWorkers),
			zap.Int("workers", MinWorkers))
		return MinWorkers
	}

	return n
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
