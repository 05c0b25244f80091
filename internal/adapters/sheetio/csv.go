package sheetio

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/okian/juryboard/internal/domain/grid"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// CSVDecoder decodes comma- or semicolon-separated exports.
type CSVDecoder struct{}

// NewCSVDecoder creates a new CSV decoder.
func NewCSVDecoder() *CSVDecoder {
	return &CSVDecoder{}
}

// Decode reads every record; ragged rows are allowed.
func (d *CSVDecoder) Decode(data []byte) (*grid.Grid, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = sniffDelimiter(data)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrDecode, err)
	}
	return grid.FromStrings(rows), nil
}

// sniffDelimiter prefers ';' when the first line has more semicolons than
// commas, which is what spreadsheet exports in comma-decimal locales produce.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
