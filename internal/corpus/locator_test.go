package corpus

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/stagerun/internal/errors"
	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// writeFiles creates empty files below root.
func writeFiles(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, r)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("int main() { return 2; }\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func names(cases []model.TestCase) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.Name
	}
	return out
}

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		"":     ".c",
		"c":    ".c",
		".c":   ".c",
		"..c":  ".c",
		" .cc": ".cc",
	}
	for in, want := range tests {
		if got := NormalizeExtension(in); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocator_Dir(t *testing.T) {
	l := New("corpus", "")
	tests := []struct {
		ref  model.StageRef
		cat  model.Category
		want string
	}{
		{model.StageRef{Stage: 1}, model.Valid, filepath.Join("corpus", "stage_1", "valid")},
		{model.StageRef{Stage: 1}, model.Invalid, filepath.Join("corpus", "stage_1", "invalid")},
		{model.StageRef{Stage: 9, Variant: "skip_on_failure"}, model.Valid, filepath.Join("corpus", "stage_9", "valid", "skip_on_failure")},
	}
	for _, tt := range tests {
		if got := l.Dir(tt.ref, tt.cat); got != tt.want {
			t.Errorf("Dir(%v, %v) = %q, want %q", tt.ref, tt.cat, got, tt.want)
		}
	}
}

func TestLocator_Locate_SortedAndFiltered(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root,
		"stage_1/valid/return_2.c",
		"stage_1/valid/multi_digit.c",
		"stage_1/valid/README.md",
		"stage_1/valid/newlines.c.bak",
		"stage_1/valid/nested/deep.c",
		"stage_1/invalid/missing_paren.c",
	)

	l := New(root, ".c")
	got, err := l.Locate(model.StageRef{Stage: 1}, model.Valid)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}

	if diff := cmp.Diff([]string{"multi_digit.c", "return_2.c"}, names(got)); diff != "" {
		t.Errorf("Locate() names mismatch (-want +got):\n%s", diff)
	}
	for _, c := range got {
		if c.Category != model.Valid {
			t.Errorf("%s: Category = %v, want valid", c.Name, c.Category)
		}
		if c.Stage != (model.StageRef{Stage: 1}) {
			t.Errorf("%s: Stage = %v", c.Name, c.Stage)
		}
		if c.Path != filepath.Join(root, "stage_1", "valid", c.Name) {
			t.Errorf("%s: Path = %q", c.Name, c.Path)
		}
	}
}

func TestLocator_Locate_Variant(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root,
		"stage_9/invalid/base.c",
		"stage_9/invalid/alt/only_alt.c",
	)

	l := New(root, "c")
	got, err := l.Locate(model.StageRef{Stage: 9, Variant: "alt"}, model.Invalid)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if diff := cmp.Diff([]string{"only_alt.c"}, names(got)); diff != "" {
		t.Errorf("variant mismatch (-want +got):\n%s", diff)
	}
}

func TestLocator_Locate_EmptyDirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "stage_2", "valid"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := New(root, "").Locate(model.StageRef{Stage: 2}, model.Valid)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Locate() = %v, want empty", got)
	}
}

func TestLocator_Locate_CorpusNotFound(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	_, err := New(root, "").Locate(model.StageRef{Stage: 3, Variant: "x"}, model.Valid)
	if err == nil {
		t.Fatal("Locate() on missing dir should fail")
	}
	if !errors.IsKind(err, errors.KindCorpusNotFound) {
		t.Errorf("Locate() error kind mismatch: %v", err)
	}
	if got := errors.GetExitCode(err); got != errors.ExitEnvironmentError {
		t.Errorf("exit code = %d, want %d", got, errors.ExitEnvironmentError)
	}
}

func TestLocator_Locate_PathIsFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "stage_1/valid")

	_, err := New(root, "").Locate(model.StageRef{Stage: 1}, model.Valid)
	if !errors.IsKind(err, errors.KindCorpusNotFound) {
		t.Errorf("Locate() on a file path: got %v, want KindCorpusNotFound", err)
	}
}

func TestLocator_Locate_FollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "shared/real.c", "stage_1/valid/plain.c")
	dir := filepath.Join(root, "stage_1", "valid")
	if err := os.Symlink(filepath.Join(root, "shared", "real.c"), filepath.Join(dir, "linked.c")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "missing.c"), filepath.Join(dir, "dangling.c")); err != nil {
		t.Fatal(err)
	}

	got, err := New(root, "").Locate(model.StageRef{Stage: 1}, model.Valid)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"linked.c", "plain.c"}, names(got)); diff != "" {
		t.Errorf("symlink handling mismatch (-want +got):\n%s", diff)
	}
}

func TestLocator_Locate_Deterministic(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, "stage_1/valid/b.c", "stage_1/valid/a.c", "stage_1/valid/c.c", "stage_1/valid/A.c")

	l := New(root, "")
	first, err := l.Locate(model.StageRef{Stage: 1}, model.Valid)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := l.Locate(model.StageRef{Stage: 1}, model.Valid)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Locate() not deterministic:\n%s", diff)
		}
	}
	if diff := cmp.Diff([]string{"A.c", "a.c", "b.c", "c.c"}, names(first)); diff != "" {
		t.Errorf("lexicographic order mismatch:\n%s", diff)
	}
}

func TestLocator_Stages(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, d := range []string{"stage_10", "stage_2", "stage_1", "stage_x", "stage_3b", "misc"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	writeFiles(t, root, "stage_4")

	got, err := New(root, "").Stages()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2, 10}, got); diff != "" {
		t.Errorf("Stages() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocator_Stages_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "nope"), "").Stages()
	if !errors.IsKind(err, errors.KindCorpusNotFound) {
		t.Errorf("Stages() error = %v, want KindCorpusNotFound", err)
	}
}
