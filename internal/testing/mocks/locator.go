package mocks

import (
	"fmt"
	"path"
	"sort"

	"github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/internal/model"
)

type locatorKey struct {
	ref model.StageRef
	cat model.Category
}

// Locator implements runner.Locator over an in-memory corpus.
// Directories that were never added report KindCorpusNotFound.
type Locator struct {
	files map[locatorKey][]string
}

// NewLocator creates an empty in-memory corpus.
func NewLocator() *Locator {
	return &Locator{files: make(map[locatorKey][]string)}
}

// WithFiles adds file names to the directory of ref/cat, creating it.
func (l *Locator) WithFiles(ref model.StageRef, cat model.Category, names ...string) *Locator {
	k := locatorKey{ref, cat}
	l.files[k] = append(l.files[k], names...)
	return l
}

// Locate returns the sorted files of ref/cat.
func (l *Locator) Locate(ref model.StageRef, cat model.Category) ([]model.TestCase, error) {
	names, ok := l.files[locatorKey{ref, cat}]
	if !ok {
		dir := path.Join(fmt.Sprintf("stage_%d", ref.Stage), cat.Dir(), ref.Variant)
		return nil, errors.CorpusNotFound(dir).WithStage(ref.String())
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	cases := make([]model.TestCase, 0, len(sorted))
	for _, n := range sorted {
		cases = append(cases, model.TestCase{
			Path:     path.Join(fmt.Sprintf("stage_%d", ref.Stage), cat.Dir(), ref.Variant, n),
			Name:     n,
			Category: cat,
			Stage:    ref,
		})
	}
	return cases, nil
}
