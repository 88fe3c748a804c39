// Package corpus locates the test source files of a staged compiler corpus.
//
// The expected layout is
//
//	<root>/stage_<N>/valid[/<variant>]/*.<ext>
//	<root>/stage_<N>/invalid[/<variant>]/*.<ext>
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// DefaultExtension is the source file extension recognized when none is configured.
const DefaultExtension = ".c"

// Locator resolves corpus directories and lists test files.
type Locator struct {
	root string
	ext  string
}

// New creates a Locator for the given corpus root. ext may be given with or
// without the leading dot; an empty ext selects DefaultExtension.
func New(root, ext string) *Locator {
	return &Locator{root: root, ext: NormalizeExtension(ext)}
}

// NormalizeExtension returns ext with exactly one leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	return "." + strings.TrimLeft(ext, ".")
}

// Root returns the corpus root directory.
func (l *Locator) Root() string {
	return l.root
}

// Extension returns the recognized source file extension.
func (l *Locator) Extension() string {
	return l.ext
}

// Dir returns the directory holding the files of one stage/variant/category.
func (l *Locator) Dir(ref model.StageRef, cat model.Category) string {
	dir := filepath.Join(l.root, fmt.Sprintf("stage_%d", ref.Stage), cat.Dir())
	if ref.Variant != "" {
		dir = filepath.Join(dir, ref.Variant)
	}
	return dir
}

// Locate lists the test files of one stage/variant/category.
//
// Files are filtered by extension only and returned sorted by file name, so
// the order does not depend on how the filesystem enumerates entries.
// Subdirectories are not descended into: variants live one level down and
// must not leak into the base stage. A missing directory yields a
// KindCorpusNotFound error.
func (l *Locator) Locate(ref model.StageRef, cat model.Category) ([]model.TestCase, error) {
	dir := l.Dir(ref, cat)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		e := errors.CorpusNotFound(dir).WithStage(ref.String())
		e.Cause = err
		return nil, e
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to read corpus directory %s", dir)).WithStage(ref.String())
	}

	seen := make(map[string]bool, len(entries))
	var cases []model.TestCase
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, l.ext) || seen[name] {
			continue
		}
		// Follow symlinks; skip anything that is not ultimately a regular file.
		if entry.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(filepath.Join(dir, name))
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		} else if !entry.Type().IsRegular() {
			continue
		}
		seen[name] = true
		cases = append(cases, model.TestCase{
			Path:     filepath.Join(dir, name),
			Name:     name,
			Category: cat,
			Stage:    ref,
		})
	}

	// Sort by name for deterministic order
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})

	return cases, nil
}

// Stages lists the stage numbers present under the corpus root, in
// ascending order. Directories that do not match stage_<N> are ignored.
func (l *Locator) Stages() ([]int, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.CorpusNotFound(l.root)
		}
		return nil, errors.Wrap(err, "failed to read corpus root")
	}

	var stages []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(entry.Name(), "stage_%d", &n); err != nil || n < 1 {
			continue
		}
		if entry.Name() != fmt.Sprintf("stage_%d", n) {
			continue
		}
		stages = append(stages, n)
	}
	sort.Ints(stages)
	return stages, nil
}
