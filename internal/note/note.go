// Package note renders single-note entries.
package note

import (
	"io"
	"time"

	"github.com/starford/quill/internal/frontmatter"
)

// Filename returns the file name for a note identifier.
func Filename(id string) string {
	return id + ".md"
}

// Render writes note frontmatter with empty title and tags.
func Render(w io.Writer, created, updated time.Time) error {
	return frontmatter.Write(w,
		frontmatter.Field{Key: "created_at", Value: frontmatter.FormatTime(created)},
		frontmatter.Field{Key: "updated_at", Value: frontmatter.FormatTime(updated)},
		frontmatter.Field{Key: "title"},
		frontmatter.Field{Key: "tags"},
	)
}
