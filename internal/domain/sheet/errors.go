package sheet

import (
	"errors"

	"github.com/okian/juryboard/internal/domain/criteria"
)

// Sentinel kinds for per-file failures.
var (
	ErrTeamCodeNotFound      = errors.New("team code not found")
	ErrCriteriaIncomplete    = criteria.ErrIncomplete
	ErrInsufficientJudgeRows = errors.New("insufficient judge rows")
	ErrDecodeFailure         = errors.New("decode failure")
)

// Error codes exposed to API clients.
const (
	CodeTeamCodeNotFound      = "team_code_not_found"
	CodeCriteriaIncomplete    = "criteria_incomplete"
	CodeInsufficientJudgeRows = "insufficient_judge_rows"
	CodeDecodeFailure         = "decode_failure"
	CodeInternal              = "internal_error"
)

// Error ties a failure kind to the file that caused it.
type Error struct {
	File string
	Kind error
	Err  error
}

// NewError builds an Error. err may be nil when kind says it all.
func NewError(file string, kind, err error) *Error {
	return &Error{File: file, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.File + ": " + e.Kind.Error()
	case errors.Is(e.Err, e.Kind):
		return e.File + ": " + e.Err.Error()
	default:
		return e.File + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Code maps the failure kind to its API error code.
func (e *Error) Code() string {
	return CodeOf(e.Kind)
}

// CodeOf maps any error to an API error code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrTeamCodeNotFound):
		return CodeTeamCodeNotFound
	case errors.Is(err, ErrCriteriaIncomplete):
		return CodeCriteriaIncomplete
	case errors.Is(err, ErrInsufficientJudgeRows):
		return CodeInsufficientJudgeRows
	case errors.Is(err, ErrDecodeFailure):
		return CodeDecodeFailure
	default:
		return CodeInternal
	}
}
