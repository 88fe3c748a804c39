package config

import "time"

// Default configuration values.
const (
	DefaultCompiler  = "badcc/bin/debug/badcc"
	DefaultCorpus    = "write_a_c_compiler-master"
	DefaultExtension = ".c"
	DefaultTimeout   = 10 * time.Second
)

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
// Workers stays zero so the runner can consult STAGERUN_PARALLEL.
func applyDefaults(cfg *Config) {
	if cfg.Compiler == "" {
		cfg.Compiler = DefaultCompiler
	}
	if cfg.Corpus == "" {
		cfg.Corpus = DefaultCorpus
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(DefaultTimeout)
	}
}
