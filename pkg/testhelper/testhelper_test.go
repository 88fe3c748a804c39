package testhelper

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestCorpus_Layout(t *testing.T) {
	t.Parallel()
	c := NewCorpus(t).
		Valid(1, "return_2.c", "int main() { return 2; }").
		Invalid(1, "missing_paren.c", "int main( {").
		File(4, "valid", "loops", "while.c", "").
		Stage(7)

	files := []string{
		"stage_1/valid/return_2.c",
		"stage_1/invalid/missing_paren.c",
		"stage_4/valid/loops/while.c",
	}
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(c.Root(), filepath.FromSlash(f))); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	for _, d := range []string{"stage_7/valid", "stage_7/invalid"} {
		fi, err := os.Stat(filepath.Join(c.Root(), filepath.FromSlash(d)))
		if err != nil || !fi.IsDir() {
			t.Errorf("missing directory %s: %v", d, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(c.Root(), "stage_1", "valid", "return_2.c"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "int main() { return 2; }" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteCompiler_AcceptValid(t *testing.T) {
	cc := WriteCompiler(t, AcceptValid)

	tests := []struct {
		file string
		code int
	}{
		{"/c/stage_1/valid/ok.c", 0},
		{"/c/stage_1/valid/broken_ret.c", 1},
		{"/c/stage_1/invalid/bad.c", 1},
	}
	for _, tt := range tests {
		err := exec.Command(cc, tt.file).Run()
		code := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else if err != nil {
			t.Fatalf("run %s: %v", tt.file, err)
		}
		if code != tt.code {
			t.Errorf("%s: exit %d, want %d", tt.file, code, tt.code)
		}
	}
}
