package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/quill/internal/entry"
	"github.com/starford/quill/internal/testutil"
)

func init() {
	Settle = 20 * time.Millisecond
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recorder struct {
	mu      sync.Mutex
	results []entry.Result
}

func (r *recorder) record(_ string, res entry.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func startWatch(t *testing.T, dir string, flags entry.Flags, svc *entry.Service) *recorder {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, svc, dir, flags, quietLogger(), rec.record); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watcher a moment to register.
	time.Sleep(50 * time.Millisecond)
	return rec
}

func TestWatch_InitializesNewSeed(t *testing.T) {
	dir := testutil.Journal(t)
	rec := startWatch(t, dir, entry.Flags{}, entry.NewService())

	testutil.Touch(t, dir, "draft.md")

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.count() == 1
	}, "seed was not initialized")

	names := testutil.Entries(t, dir)
	if len(names) != 1 || names[0] == "draft.md" {
		t.Fatalf("entries = %v", names)
	}
	data, _ := os.ReadFile(filepath.Join(dir, names[0]))
	if !strings.Contains(string(data), "title:\n") {
		t.Errorf("note content = %q", data)
	}
}

func TestWatch_InitializesPendingSeedsOnStart(t *testing.T) {
	dir := testutil.Journal(t, "waiting.md")
	svc := entry.NewService(entry.WithClock(testutil.Clock(2024, time.March, 15)))
	rec := startWatch(t, dir, entry.Flags{Diary: true}, svc)

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return rec.count() == 1
	}, "pending seed was not initialized")

	if got := testutil.Entries(t, dir); !slices.Equal(got, []string{"202403.md"}) {
		t.Errorf("entries = %v", got)
	}
}

func TestWatch_IgnoresNonEmptyAndEntryNames(t *testing.T) {
	dir := testutil.Journal(t)
	rec := startWatch(t, dir, entry.Flags{}, entry.NewService())

	_ = os.WriteFile(filepath.Join(dir, "written.md"), []byte("# keep"), 0o644)
	testutil.Touch(t, dir, "202401.md")
	testutil.Touch(t, dir, "notes.txt")
	testutil.Touch(t, dir, ".hidden.md")

	time.Sleep(200 * time.Millisecond)
	if rec.count() != 0 {
		t.Errorf("unexpected initializations: %+v", rec.results)
	}
	want := []string{".hidden.md", "202401.md", "notes.txt", "written.md"}
	if got := testutil.Entries(t, dir); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestIsSeedName(t *testing.T) {
	tests := map[string]bool{
		"draft.md":                      true,
		"202403.md":                     false,
		"01HQ3ZK5QW7V8Y9X0A1B2C3D4E.md": false,
		"0190a5d2-7c3b-7e4a-9b1c-2d3e4f5a6b7c.md": false,
		".draft.md": false,
		"draft.txt": false,
	}
	for name, want := range tests {
		if got := isSeedName(name); got != want {
			t.Errorf("isSeedName(%q) = %v, want %v", name, got, want)
		}
	}
}
