// Package testutil provides shared test helpers for setting up journals.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Journal creates a temporary journal directory holding empty files with
// the given names.
func Journal(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		Touch(t, dir, n)
	}
	return dir
}

// Touch creates an empty file named name in dir.
func Touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// Clock returns a fixed clock at midnight local time on the given date.
func Clock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	}
}

// Entries returns the sorted names of regular files in dir.
func Entries(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, d := range des {
		if d.Type().IsRegular() {
			out = append(out, d.Name())
		}
	}
	return out
}
