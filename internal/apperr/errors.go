// Package apperr defines the error kinds surfaced to users.
package apperr

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrIO             = errors.New("io error")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrNoCommand      = errors.New("no subcommand provided")
	ErrUnknownCommand = errors.New("unknown subcommand")
)
