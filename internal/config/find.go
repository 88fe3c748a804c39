package config

import (
	"errors"
	"os"
	"path/filepath"
)

// DirName is the name of the stagerun configuration directory.
const DirName = ".stagerun"

// FileNames lists the accepted configuration files inside DirName, in
// lookup order.
var FileNames = []string{"config.json", "config.yaml", "config.yml"}

// ErrNoConfig is returned when no configuration file exists in the start
// directory or any of its parents.
var ErrNoConfig = errors.New(".stagerun/config.{json,yaml,yml} not found (in the current directory or any parent up to the root)")

// Find walks up from the current working directory until it finds a
// configuration file.
func Find() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindFrom(cwd)
}

// FindFrom walks up from startDir until it finds a configuration file and
// returns its path.
func FindFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, DirName, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}

// BaseDir returns the directory relative paths in the config file at path
// are resolved against: the parent of its .stagerun directory.
func BaseDir(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == DirName {
		return filepath.Dir(dir)
	}
	return dir
}
