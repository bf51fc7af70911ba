package api

import "github.com/starford/quill/internal/entry"

// CreateEntryRequest is the request body for creating an entry.
// Kind is "note" (default) or "diary"; ID is "ulid" (default) or "uuid".
type CreateEntryRequest struct {
	Kind string `json:"kind" example:"diary"`
	ID   string `json:"id" example:"ulid"`
}

// EntryResponse describes a created entry.
type EntryResponse = entry.Result

// NextDiaryResponse previews the month the next diary file will cover.
type NextDiaryResponse struct {
	YearMonth string `json:"year_month" example:"202404"`
	Name      string `json:"name" example:"202404.md"`
}

// EntryDetail is the parsed content of an entry.
type EntryDetail struct {
	Name        string         `json:"name" example:"202404.md"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Body        string         `json:"body"`
}
