// Package watcher turns empty Markdown files dropped into a journal into
// entries as soon as they appear.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/quill/internal/diary"
	"github.com/starford/quill/internal/entry"
	"github.com/starford/quill/internal/ident"
)

// Settle is how long a seed must stay empty before it is initialised.
var Settle = 200 * time.Millisecond

// EventCallback is called after a seed was turned into an entry.
// kind is always "created".
type EventCallback func(kind string, res entry.Result)

// Initializer turns a resolved seed file into an entry.
type Initializer interface {
	Init(ctx context.Context, opts entry.Options) (entry.Result, error)
}

// Watch initialises every pending seed under root, then watches root until
// ctx is cancelled. Only top-level files are considered.
func Watch(ctx context.Context, svc Initializer, root string, flags entry.Flags, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]struct{})
	if des, err := os.ReadDir(root); err == nil {
		for _, d := range des {
			if isSeedName(d.Name()) {
				pending[filepath.Join(root, d.Name())] = struct{}{}
			}
		}
	}

	settleTimer := time.NewTimer(Settle)
	defer settleTimer.Stop()
	schedule := func() {
		settleTimer.Reset(Settle)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case <-settleTimer.C:
			for p := range pending {
				initSeed(ctx, svc, p, flags, logger, cb)
				delete(pending, p)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(ev.Name) != filepath.Clean(root) || !isSeedName(filepath.Base(ev.Name)) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[ev.Name] = struct{}{}
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, ev.Name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isSeedName reports whether name could be a seed: a visible .md file that
// is not already named like an entry.
func isSeedName(name string) bool {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
		return false
	}
	if diary.IsFilename(name) {
		return false
	}
	return !ident.Recognize(strings.TrimSuffix(name, ".md"))
}

func initSeed(ctx context.Context, svc Initializer, path string, flags entry.Flags, logger *slog.Logger, cb EventCallback) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != 0 {
		return
	}
	opts, err := entry.ResolveFile(path, flags)
	if err != nil {
		logger.Warn("watcher: resolve failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	res, err := svc.Init(ctx, opts)
	if err != nil {
		logger.Warn("watcher: init failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	logger.Info("watcher: initialized",
		slog.String("seed", path),
		slog.String("path", res.Path),
		slog.String("kind", res.Kind.String()))
	if cb != nil {
		cb("created", res)
	}
}
