// Package testhelper provides helpers for tests that drive a compiler
// through stagerun: throwaway corpora laid out the way the harness expects,
// and scripted stand-in compilers.
//
// Example usage in a Go test:
//
//	func TestStage1(t *testing.T) {
//	    root := testhelper.NewCorpus(t).
//	        Valid(1, "return_2.c", "int main() { return 2; }").
//	        Invalid(1, "missing_paren.c", "int main( { return 0; }").
//	        Root()
//	    cc := testhelper.WriteCompiler(t, `grep -q "main()" "$1"`)
//	    // run stagerun with --corpus root --compiler cc
//	}
package testhelper

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Corpus builds a stage_<N>/{valid,invalid}[/<variant>] tree under a
// temporary directory.
type Corpus struct {
	t    testing.TB
	root string
}

// NewCorpus creates an empty corpus in a fresh t.TempDir().
func NewCorpus(t testing.TB) *Corpus {
	t.Helper()
	return &Corpus{t: t, root: t.TempDir()}
}

// Root returns the corpus root directory.
func (c *Corpus) Root() string {
	return c.root
}

// Valid adds a file to stage_<stage>/valid.
func (c *Corpus) Valid(stage int, name, src string) *Corpus {
	c.t.Helper()
	return c.File(stage, "valid", "", name, src)
}

// Invalid adds a file to stage_<stage>/invalid.
func (c *Corpus) Invalid(stage int, name, src string) *Corpus {
	c.t.Helper()
	return c.File(stage, "invalid", "", name, src)
}

// File adds a file to stage_<stage>/<category>[/<variant>].
func (c *Corpus) File(stage int, category, variant, name, src string) *Corpus {
	c.t.Helper()
	dir := c.Dir(stage, category, variant)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		c.t.Fatalf("write corpus file: %v", err)
	}
	return c
}

// Dir creates stage_<stage>/<category>[/<variant>] if needed and returns
// its path. Use it to create empty category directories.
func (c *Corpus) Dir(stage int, category, variant string) string {
	c.t.Helper()
	dir := filepath.Join(c.root, fmt.Sprintf("stage_%d", stage), category)
	if variant != "" {
		dir = filepath.Join(dir, variant)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.t.Fatalf("create corpus directory: %v", err)
	}
	return dir
}

// Stage creates both category directories of a stage, empty.
func (c *Corpus) Stage(stage int) *Corpus {
	c.t.Helper()
	c.Dir(stage, "valid", "")
	c.Dir(stage, "invalid", "")
	return c
}
