package entry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/calendar"
	"github.com/starford/quill/internal/diary"
	"github.com/starford/quill/internal/ident"
	"github.com/starford/quill/internal/note"
	"github.com/starford/quill/internal/storage"
)

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result describes a materialised entry.
type Result struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock sets the source of "today" for diary rollover.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithGenerator replaces the identifier generator for style.
func WithGenerator(style ident.Style, g ident.Generator) ServiceOption {
	return func(s *Service) {
		s.ids[style] = g
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// Service creates diary and note entries.
type Service struct {
	now    func() time.Time
	ids    map[ident.Style]ident.Generator
	logger *slog.Logger
}

// NewService creates a Service with ULID and UUIDv7 generators and the
// system clock.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		now: time.Now,
		ids: map[ident.Style]ident.Generator{
			ident.StyleULID: ident.For(ident.StyleULID),
			ident.StyleUUID: ident.For(ident.StyleUUID),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type renderFunc func(w io.Writer, created, updated time.Time) error

// Init turns an empty seed file into an entry by renaming it in place and
// filling it. A note's identifier derives from the seed's creation time.
func (s *Service) Init(ctx context.Context, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	store, err := storage.NewFS(opts.Dir())
	if err != nil {
		return Result{}, err
	}
	seed := filepath.Base(opts.Target())

	var (
		name   string
		render renderFunc
	)
	switch opts.Kind() {
	case Diary:
		ym, err := s.claimMonth(store, func(n string) error {
			return store.Move(seed, n)
		})
		if err != nil {
			return Result{}, err
		}
		name = diary.Filename(ym)
		render = diaryRender(ym)
	default:
		ts, err := store.Times(seed)
		if err != nil {
			return Result{}, err
		}
		id, err := s.generator(opts.Style()).FromTime(ts.Created)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", apperr.ErrIO, err)
		}
		name = note.Filename(id)
		if err := store.Move(seed, name); err != nil {
			return Result{}, err
		}
		render = note.Render
	}

	file, err := store.Rewrite(name)
	if err != nil {
		return Result{}, err
	}
	if err := s.fill(store, file, name, render); err != nil {
		return Result{}, err
	}

	res := Result{Path: filepath.Join(store.Root(), name), Name: name, Kind: opts.Kind()}
	s.logger.Debug("entry: initialized",
		slog.String("seed", opts.Target()),
		slog.String("path", res.Path),
		slog.String("kind", res.Kind.String()))
	return res, nil
}

// Create writes a new entry inside the options' directory.
func (s *Service) Create(ctx context.Context, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	store, err := storage.NewFS(opts.Dir())
	if err != nil {
		return Result{}, err
	}

	var (
		name   string
		file   *os.File
		render renderFunc
	)
	switch opts.Kind() {
	case Diary:
		ym, err := s.claimMonth(store, func(n string) error {
			f, err := store.Create(n)
			file = f
			return err
		})
		if err != nil {
			return Result{}, err
		}
		name = diary.Filename(ym)
		render = diaryRender(ym)
	default:
		id, err := s.generator(opts.Style()).New()
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", apperr.ErrIO, err)
		}
		name = note.Filename(id)
		if file, err = store.Create(name); err != nil {
			return Result{}, err
		}
		render = note.Render
	}

	if err := s.fill(store, file, name, render); err != nil {
		return Result{}, err
	}

	res := Result{Path: filepath.Join(store.Root(), name), Name: name, Kind: opts.Kind()}
	s.logger.Debug("entry: created",
		slog.String("path", res.Path),
		slog.String("kind", res.Kind.String()))
	return res, nil
}

// NextDiary reports the month the next diary file in dir would cover.
func (s *Service) NextDiary(ctx context.Context, dir string) (calendar.YearMonth, error) {
	if err := ctx.Err(); err != nil {
		return calendar.YearMonth{}, err
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return calendar.YearMonth{}, err
	}
	return s.nextMonth(store)
}

func (s *Service) nextMonth(store storage.Provider) (calendar.YearMonth, error) {
	latest, found, err := diary.Scan(store)
	if err != nil {
		return calendar.YearMonth{}, err
	}
	return diary.Choose(latest, found, calendar.Of(s.now())), nil
}

// claimMonth picks the rollover month and calls take with its file name. If
// that name is taken, the following month is tried once.
func (s *Service) claimMonth(store storage.Provider, take func(name string) error) (calendar.YearMonth, error) {
	ym, err := s.nextMonth(store)
	if err != nil {
		return calendar.YearMonth{}, err
	}
	err = take(diary.Filename(ym))
	if errors.Is(err, apperr.ErrAlreadyExists) {
		s.logger.Warn("entry: diary month already taken, trying the next one",
			slog.String("month", ym.String()))
		ym = ym.Next()
		err = take(diary.Filename(ym))
	}
	if err != nil {
		return calendar.YearMonth{}, err
	}
	return ym, nil
}

// fill writes rendered content into file, stamped with the file's own
// timestamps, and closes it.
func (s *Service) fill(store storage.Provider, file *os.File, name string, render renderFunc) error {
	ts, err := store.Times(name)
	if err != nil {
		file.Close()
		return err
	}
	bw := bufio.NewWriter(file)
	if err := render(bw, ts.Created, ts.Modified); err != nil {
		file.Close()
		return fmt.Errorf("%w: write %s: %w", apperr.ErrIO, file.Name(), err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("%w: write %s: %w", apperr.ErrIO, file.Name(), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", apperr.ErrIO, file.Name(), err)
	}
	return nil
}

func (s *Service) generator(style ident.Style) ident.Generator {
	if g, ok := s.ids[style]; ok {
		return g
	}
	return s.ids[ident.StyleULID]
}

func diaryRender(ym calendar.YearMonth) renderFunc {
	return func(w io.Writer, created, updated time.Time) error {
		return diary.Render(w, ym, created, updated)
	}
}
