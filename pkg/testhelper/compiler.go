package testhelper

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// AcceptValid is a compiler script that accepts every file under a valid/
// directory whose name does not start with "broken", and rejects the rest.
const AcceptValid = `case "$1" in
*/valid/broken*) exit 1 ;;
*/valid/*) exit 0 ;;
*) exit 1 ;;
esac`

// WriteCompiler writes body as an executable /bin/sh script in a fresh
// t.TempDir() and returns its path. The script receives the source file as
// $1. Skips the test on Windows.
//
// Tests that exec the script must not run in parallel with tests that
// write one: a concurrent fork can inherit the open write descriptor and
// make exec fail with ETXTBSY.
func WriteCompiler(t testing.TB, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compilers require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakecc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write compiler script: %v", err)
	}
	return path
}
