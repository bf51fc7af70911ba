package diary

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/starford/quill/internal/calendar"
	"github.com/starford/quill/internal/frontmatter"
)

// HeadingMarker prefixes every day heading.
const HeadingMarker = "######"

// placeholder keeps the day body from being collapsed by editors.
const placeholder = "　"

// Section is one day of a diary file.
type Section struct {
	Date    time.Time
	Weekday string
}

// Heading returns the section heading without the marker.
func (s Section) Heading() string {
	return s.Date.Format("2006-01-02") + "-" + s.Weekday
}

// Sections lists one section per day of ym.
func Sections(ym calendar.YearMonth) []Section {
	dates := ym.Dates()
	out := make([]Section, len(dates))
	for i, d := range dates {
		out[i] = Section{Date: d, Weekday: strings.ToLower(d.Weekday().String())}
	}
	return out
}

// Render writes the diary content for ym.
func Render(w io.Writer, ym calendar.YearMonth, created, updated time.Time) error {
	bw := bufio.NewWriter(w)
	err := frontmatter.Write(bw,
		frontmatter.Field{Key: "created_at", Value: frontmatter.FormatTime(created)},
		frontmatter.Field{Key: "updated_at", Value: frontmatter.FormatTime(updated)},
	)
	if err != nil {
		return err
	}
	for _, s := range Sections(ym) {
		if _, err := fmt.Fprintf(bw, "\n%s %s\n\n%s\n", HeadingMarker, s.Heading(), placeholder); err != nil {
			return err
		}
	}
	return bw.Flush()
}
