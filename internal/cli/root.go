package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/stagerun/internal/config"
	"github.com/AndreyAkinshin/stagerun/internal/output"
)

// Options holds the command-line flags. Zero values defer to the config
// file; see resolveConfig.
type Options struct {
	Compiler    string
	Corpus      string
	Extension   string
	Jobs        int
	Timeout     time.Duration
	StopOnError bool
	ConfigPath  string
	Report      string
	ShowOutput  bool
	All         bool
	Quiet       bool
	Verbose     bool
	NoColor     bool
}

// NewRootCommand creates the stagerun command writing through w.
func NewRootCommand(w *output.Writer) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "stagerun [flags] <stage[:variant]|from-to>...",
		Short: "Run a staged conformance corpus against a compiler",
		Long: `stagerun runs the compiler under test on every source file of the
requested stages and checks its exit code: files under valid/ must be
accepted (exit 0), files under invalid/ must be rejected (any other exit).

Corpus layout:
  <corpus>/stage_<N>/{valid,invalid}[/<variant>]/*.c

Stages are given as N, N:variant or a range from-to. With no stage
arguments the stages listed in .stagerun/config.{json,yaml,yml} are run;
--all runs every stage found in the corpus.

Exit codes:
  0   all tests passed
  1   one or more tests failed
  2   usage or configuration error
  3   corpus directory missing or compiler could not be started
  130 interrupted

Examples:
  stagerun 1
  stagerun 1-5 --jobs 8
  stagerun 4:loops --compiler ./mycc --timeout 30s
  stagerun --all --report out/report.json`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarness(cmd, opts, args, w)
		},
	}
	cmd.SetVersionTemplate("stagerun {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.Compiler, "compiler", "c", config.DefaultCompiler, "path to the compiler under test")
	f.StringVar(&opts.Corpus, "corpus", config.DefaultCorpus, "corpus root directory")
	f.StringVar(&opts.Extension, "ext", config.DefaultExtension, "source file extension")
	f.IntVarP(&opts.Jobs, "jobs", "j", 0, "concurrent compiler invocations (default $STAGERUN_PARALLEL or 1)")
	f.DurationVar(&opts.Timeout, "timeout", config.DefaultTimeout, "per-file time limit")
	f.BoolVar(&opts.StopOnError, "stop-on-error", false, "stop after the first aborted stage")
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default: .stagerun/config.{json,yaml,yml} in this or a parent directory)")
	f.StringVar(&opts.Report, "report", "", "write a run report (.json, .yaml or .yml)")
	f.BoolVar(&opts.ShowOutput, "show-output", false, "forward compiler output to stderr")
	f.BoolVar(&opts.All, "all", false, "run every stage found in the corpus")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress informational lines")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging and a summary table")
	f.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}
