package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/djherbis/times"
	"github.com/starford/quill/internal/apperr"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the journal directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", apperr.ErrIO, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", apperr.ErrIO, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", apperr.ErrInvalidInput, abs)
	}
	return &FS{root: abs}, nil
}

// Root implements Provider.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty file name", apperr.ErrInvalidInput)
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: absolute paths not allowed: %s", apperr.ErrInvalidInput, rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: path escapes journal root: %s", apperr.ErrInvalidInput, rel)
	}
	return abs, nil
}

// Files implements Provider.
func (f *FS) Files() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read dir %s: %w", apperr.ErrIO, f.root, err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Create implements Provider.
func (f *FS) Create(name string) (*os.File, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, abs)
		}
		return nil, fmt.Errorf("%w: create %s: %w", apperr.ErrIO, abs, err)
	}
	return file, nil
}

// Rewrite implements Provider.
func (f *FS) Rewrite(name string) (*os.File, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(abs, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperr.ErrIO, abs, err)
	}
	return file, nil
}

// Move implements Provider.
func (f *FS) Move(oldName, newName string) error {
	absOld, err := f.safePath(oldName)
	if err != nil {
		return err
	}
	absNew, err := f.safePath(newName)
	if err != nil {
		return err
	}
	if absOld == absNew {
		return nil
	}
	if _, err := os.Lstat(absNew); err == nil {
		return fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, absNew)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", apperr.ErrIO, absNew, err)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %w", apperr.ErrIO, absOld, absNew, err)
	}
	return nil
}

// Times implements Provider. Created falls back to the modification time on
// filesystems that do not record a birth time.
func (f *FS) Times(name string) (Times, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return Times{}, err
	}
	ts, err := times.Stat(abs)
	if err != nil {
		return Times{}, fmt.Errorf("%w: metadata %s: %w", apperr.ErrIO, abs, err)
	}
	out := Times{Created: ts.ModTime(), Modified: ts.ModTime()}
	if ts.HasBirthTime() {
		out.Created = ts.BirthTime()
	}
	return out, nil
}

// Read implements Provider.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: read %s: %w", apperr.ErrIO, abs, err)
	}
	return data, nil
}
