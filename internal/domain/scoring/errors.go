package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrJudgeCount = errors.New("unexpected number of judge rows")
)
