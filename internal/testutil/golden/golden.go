// Package golden compares test output against checked-in files under a
// package's testdata directory. Run the tests with -update to rewrite
// them from current output.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Update rewrites golden files instead of comparing against them.
var Update = flag.Bool("update", false, "update golden files")

// TestdataDir resolves the testdata directory next to the calling test
// file.
func TestdataDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(file), "testdata")
}

// Read returns the named golden file's content, or "" when no golden
// file has been recorded yet.
func Read(t *testing.T, dir, name string) string {
	t.Helper()
	checkName(t, name)

	data, err := os.ReadFile(filepath.Join(dir, name+".golden")) //nolint:gosec // testdata path controlled by test
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("read golden %q: %v", name, err)
	}
	return string(data)
}

// Write records the named golden file, creating the testdata directory
// if needed.
func Write(t *testing.T, dir, name, content string) {
	t.Helper()
	checkName(t, name)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir %q: %v", dir, err)
	}
	path := filepath.Join(dir, name+".golden")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write golden %q: %v", name, err)
	}
}

// checkName rejects names that could escape the testdata directory.
func checkName(t *testing.T, name string) {
	t.Helper()
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		t.Fatalf("invalid golden name %q", name)
	}
}
