package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrUnknownPolicy = errors.New("unknown placement policy")
)
