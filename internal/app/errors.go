package service

import "errors"

// Sentinel kinds for batch-level validation.
var (
	ErrNoFiles      = errors.New("no files uploaded")
	ErrTooManyFiles = errors.New("too many files")
)
