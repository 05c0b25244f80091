package criteria

import "errors"

// Sentinel kinds for criteria errors.
var (
	ErrIncomplete = errors.New("criteria incomplete")
)
