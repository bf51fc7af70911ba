// Package storage defines the journal directory abstraction.
package storage

import (
	"os"
	"time"
)

// Times holds the filesystem timestamps of a file.
type Times struct {
	Created  time.Time
	Modified time.Time
}

// Provider is the interface for file operations inside one journal directory.
// All names are relative to Root.
type Provider interface {
	// Root returns the absolute directory path.
	Root() string
	// Files returns the names of regular files directly under Root.
	Files() ([]string, error)
	// Create creates name, failing with apperr.ErrAlreadyExists if it exists.
	Create(name string) (*os.File, error)
	// Rewrite opens an existing file for writing, truncating it.
	Rewrite(name string) (*os.File, error)
	// Move renames oldName to newName without replacing an existing file.
	Move(oldName, newName string) error
	// Times returns the creation and modification timestamps of name.
	Times(name string) (Times, error)
	// Read returns the raw bytes of name.
	Read(name string) ([]byte, error)
}
