package cli

import (
	stderrors "errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagerun/internal/compiler"
	"github.com/AndreyAkinshin/stagerun/internal/config"
	"github.com/AndreyAkinshin/stagerun/internal/corpus"
	"github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/internal/model"
	"github.com/AndreyAkinshin/stagerun/internal/output"
	"github.com/AndreyAkinshin/stagerun/internal/report"
	"github.com/AndreyAkinshin/stagerun/internal/runner"
)

func runHarness(cmd *cobra.Command, opts *Options, args []string, w *output.Writer) error {
	if opts.NoColor {
		w.SetColor(false)
	}
	w.SetQuiet(opts.Quiet)

	log := newLogger(w.Stderr(), opts.Verbose)
	defer func() { _ = log.Sync() }()

	cfg, err := resolveConfig(cmd, opts, w, log)
	if err != nil {
		return err
	}

	loc := corpus.New(cfg.Corpus, cfg.Extension)
	refs, err := selectStages(opts, args, cfg, loc)
	if err != nil {
		return err
	}

	inv := compiler.New(cfg.Compiler, cfg.Timeout.Std())
	inv.SetLogger(log)
	if opts.ShowOutput {
		inv.SetOutput(w.Stderr())
	}
	if err := inv.Check(); err != nil {
		log.Warn("compiler check failed", zap.Error(err))
	}

	rep := report.New(w)
	r := runner.New(loc, inv, rep, runner.Options{
		Workers:     cfg.Workers,
		StopOnError: cfg.StopOnError,
		Timeout:     cfg.Timeout.Std(),
		Logger:      log,
	})

	meta := report.NewMeta(cfg.Compiler, cfg.Corpus, r.Workers(), cfg.Timeout.Std())
	log.Debug("run started",
		zap.String("run_id", meta.RunID),
		zap.String("compiler", cfg.Compiler),
		zap.String("corpus", cfg.Corpus),
		zap.Int("workers", r.Workers()),
		zap.Duration("timeout", cfg.Timeout.Std()),
		zap.Strings("stages", stageArgs(refs)))

	run, runErr := r.Run(cmd.Context(), refs)
	meta.Duration = time.Since(meta.StartedAt)

	if opts.Verbose {
		rep.Table(run)
	}

	var reportErr error
	if cfg.Report != "" {
		if err := report.WriteFile(cfg.Report, run, meta); err != nil {
			reportErr = errors.Wrap(err, "cannot write run report")
			w.ErrorPrefix("%v", reportErr)
		} else {
			log.Debug("run report written", zap.String("path", cfg.Report))
		}
	}

	if runErr != nil || reportErr != nil {
		return &reportedError{err: stderrors.Join(runErr, reportErr)}
	}
	if !run.OK() {
		return errTestsFailed
	}
	return nil
}

// resolveConfig loads the config file, if any, and applies the flags the
// user set explicitly on top of it.
func resolveConfig(cmd *cobra.Command, opts *Options, w *output.Writer, log *zap.Logger) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		found, err := config.Find()
		if err != nil && !stderrors.Is(err, config.ErrNoConfig) {
			return nil, errors.Wrap(err, "failed to locate config file")
		}
		path = found
	}

	cfg := config.Default()
	if path != "" {
		loaded, warnings, err := config.LoadAndValidate(path)
		for _, msg := range warnings {
			w.Warning("%s: %s", path, msg)
		}
		if err != nil {
			return nil, errors.Configf("%s: %v", path, err)
		}
		loaded.ResolvePaths(config.BaseDir(path))
		cfg = loaded
		log.Debug("config loaded", zap.String("path", path))
	}

	flags := cmd.Flags()
	if flags.Changed("compiler") {
		cfg.Compiler = opts.Compiler
	}
	if flags.Changed("corpus") {
		cfg.Corpus = opts.Corpus
	}
	if flags.Changed("ext") {
		cfg.Extension = opts.Extension
	}
	if flags.Changed("jobs") {
		if opts.Jobs < runner.MinWorkers || opts.Jobs > runner.MaxWorkers {
			return nil, errors.Configf("--jobs must be between %d and %d", runner.MinWorkers, runner.MaxWorkers)
		}
		cfg.Workers = opts.Jobs
	}
	if flags.Changed("timeout") {
		if opts.Timeout <= 0 {
			return nil, errors.Config("--timeout must be greater than zero")
		}
		cfg.Timeout = config.Duration(opts.Timeout)
	}
	if flags.Changed("stop-on-error") {
		cfg.StopOnError = opts.StopOnError
	}
	if flags.Changed("report") {
		cfg.Report = opts.Report
	}

	cfg.Extension = corpus.NormalizeExtension(cfg.Extension)
	if cfg.Report != "" {
		if _, err := report.FormatForPath(cfg.Report); err != nil {
			return nil, errors.Config(err.Error())
		}
	}
	return cfg, nil
}

// selectStages returns the stages to run: the command-line arguments, every
// stage of the corpus with --all, or the stages of the config file.
func selectStages(opts *Options, args []string, cfg *config.Config, loc *corpus.Locator) ([]model.StageRef, error) {
	switch {
	case opts.All && len(args) > 0:
		return nil, errors.Config("--all cannot be combined with stage arguments")

	case len(args) > 0:
		refs, err := model.ParseStageRefs(args)
		if err != nil {
			return nil, errors.Config(err.Error())
		}
		return refs, nil

	case opts.All:
		stages, err := loc.Stages()
		if err != nil {
			return nil, err
		}
		if len(stages) == 0 {
			return nil, errors.Configf("no stage_<N> directories under %s", loc.Root())
		}
		refs := make([]model.StageRef, 0, len(stages))
		for _, n := range stages {
			refs = append(refs, model.StageRef{Stage: n})
		}
		return refs, nil
	}

	refs := uniqueRefs(cfg.StageRefs())
	if len(refs) == 0 {
		return nil, errors.Config("no stages given: pass stage numbers (e.g. 1 or 1-5), use --all, or list stages in the config file")
	}
	return refs, nil
}

func stageArgs(refs []model.StageRef) []string {
	args := make([]string, len(refs))
	for i, ref := range refs {
		args[i] = ref.Arg()
	}
	return args
}

func uniqueRefs(refs []model.StageRef) []model.StageRef {
	seen := make(map[model.StageRef]bool, len(refs))
	result := refs[:0:0]
	for _, ref := range refs {
		if !seen[ref] {
			seen[ref] = true
			result = append(result, ref)
		}
	}
	return result
}
