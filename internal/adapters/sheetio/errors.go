package sheetio

import "errors"

// Sentinel kinds for decoding errors.
var (
	ErrDecode      = errors.New("decode sheet failed")
	ErrUnsupported = errors.New("unsupported file type")
	ErrNoSheets    = errors.New("workbook has no sheets")
)
