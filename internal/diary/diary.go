// Package diary names, locates, and renders monthly diary files.
//
// A diary file is named YYYYMM.md and holds one section per day of that
// month. The month chosen for a new file follows the rollover rule in Choose.
package diary

import (
	"regexp"
	"strings"

	"github.com/starford/quill/internal/calendar"
	"github.com/starford/quill/internal/storage"
)

const ext = ".md"

var nameRe = regexp.MustCompile(`^\d{6}\.md$`)

// Filename returns the file name for ym.
func Filename(ym calendar.YearMonth) string {
	return ym.String() + ext
}

// ParseFilename extracts the month from a diary file name. Names that do not
// match the pattern or carry an impossible month report false.
func ParseFilename(name string) (calendar.YearMonth, bool) {
	if !nameRe.MatchString(name) {
		return calendar.YearMonth{}, false
	}
	ym, err := calendar.Parse(strings.TrimSuffix(name, ext))
	if err != nil {
		return calendar.YearMonth{}, false
	}
	return ym, true
}

// IsFilename reports whether name is a valid diary file name.
func IsFilename(name string) bool {
	_, ok := ParseFilename(name)
	return ok
}

// Latest returns the greatest month among names that are diary file names.
func Latest(names []string) (calendar.YearMonth, bool) {
	var (
		latest calendar.YearMonth
		found  bool
	)
	for _, n := range names {
		ym, ok := ParseFilename(n)
		if !ok {
			continue
		}
		if !found || latest.Before(ym) {
			latest, found = ym, true
		}
	}
	return latest, found
}

// Scan returns the latest diary month among the regular files in store.
func Scan(store storage.Provider) (calendar.YearMonth, bool, error) {
	names, err := store.Files()
	if err != nil {
		return calendar.YearMonth{}, false, err
	}
	ym, ok := Latest(names)
	return ym, ok, nil
}

// Choose picks the month for a new diary file. With no existing file, or
// when the latest one is older than today's month, today's month wins and
// any gap is skipped. Otherwise the month after latest is used.
func Choose(latest calendar.YearMonth, found bool, today calendar.YearMonth) calendar.YearMonth {
	if !found || latest.Before(today) {
		return today
	}
	return latest.Next()
}
