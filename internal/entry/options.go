// Package entry resolves invocation options and materialises diary and note
// entries on disk.
package entry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/ident"
)

// Kind is the entry format.
type Kind int

const (
	Note Kind = iota
	Diary
)

func (k Kind) String() string {
	if k == Diary {
		return "diary"
	}
	return "note"
}

// ParseKind maps "note" or "diary" to a Kind. Empty means Note.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "note":
		return Note, nil
	case "diary":
		return Diary, nil
	default:
		return 0, fmt.Errorf("%w: unknown entry kind %q", apperr.ErrInvalidInput, s)
	}
}

// Flags are the user-selected format switches. At most one may be set.
type Flags struct {
	Diary bool
	Note  bool // note with a ULID; also spelled --ulid
	UUID  bool // note with a UUIDv7
}

// FlagsFor builds the switches that select kind and style.
func FlagsFor(kind Kind, style ident.Style) Flags {
	switch {
	case kind == Diary:
		return Flags{Diary: true}
	case style == ident.StyleUUID:
		return Flags{UUID: true}
	default:
		return Flags{Note: true}
	}
}

func (f Flags) resolve() (Kind, ident.Style, error) {
	switch {
	case f.Diary && f.Note:
		return 0, 0, fmt.Errorf("%w: can't specify both diary and note outputs", apperr.ErrInvalidInput)
	case f.Diary && f.UUID:
		return 0, 0, fmt.Errorf("%w: can't specify both diary and uuid outputs", apperr.ErrInvalidInput)
	case f.Note && f.UUID:
		return 0, 0, fmt.Errorf("%w: can't specify both ulid and uuid identifiers", apperr.ErrInvalidInput)
	case f.Diary:
		return Diary, ident.StyleULID, nil
	case f.UUID:
		return Note, ident.StyleUUID, nil
	default:
		return Note, ident.StyleULID, nil
	}
}

// Options are the resolved parameters of one invocation.
type Options struct {
	target string
	dir    string
	kind   Kind
	style  ident.Style
}

// Target is the seed file (file-target mode) or the directory.
func (o Options) Target() string { return o.target }

// Dir is the working directory that is scanned and written.
func (o Options) Dir() string { return o.dir }

// Kind is the entry format.
func (o Options) Kind() Kind { return o.kind }

// Style is the identifier family used for notes.
func (o Options) Style() ident.Style { return o.style }

// ResolveFile validates a seed file: it must exist, be a regular file, and
// be empty. The working directory is the file's parent.
func ResolveFile(path string, flags Flags) (Options, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Options{}, fmt.Errorf("%w: %s does not exist", apperr.ErrInvalidInput, path)
		}
		return Options{}, fmt.Errorf("%w: stat %s: %w", apperr.ErrIO, path, err)
	}
	if !info.Mode().IsRegular() {
		return Options{}, fmt.Errorf("%w: %s is not a file", apperr.ErrInvalidInput, path)
	}
	if info.Size() > 0 {
		return Options{}, fmt.Errorf("%w: %s is not empty", apperr.ErrInvalidInput, path)
	}

	kind, style, err := flags.resolve()
	if err != nil {
		return Options{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: resolve %s: %w", apperr.ErrIO, path, err)
	}
	return Options{target: abs, dir: filepath.Dir(abs), kind: kind, style: style}, nil
}

// ResolveDir validates the flags, creates the directory if it is absent,
// and canonicalises it with symlinks resolved.
func ResolveDir(path string, flags Flags) (Options, error) {
	kind, style, err := flags.resolve()
	if err != nil {
		return Options{}, err
	}
	if path == "" {
		path = "."
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return Options{}, fmt.Errorf("%w: create dir %s: %w", apperr.ErrIO, path, err)
		}
	case err != nil:
		return Options{}, fmt.Errorf("%w: stat %s: %w", apperr.ErrIO, path, err)
	case !info.IsDir():
		return Options{}, fmt.Errorf("%w: %s is not a directory", apperr.ErrInvalidInput, path)
	}

	dir, err := filepath.EvalSymlinks(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: canonicalize %s: %w", apperr.ErrIO, path, err)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return Options{}, fmt.Errorf("%w: resolve %s: %w", apperr.ErrIO, path, err)
	}
	return Options{target: dir, dir: dir, kind: kind, style: style}, nil
}
