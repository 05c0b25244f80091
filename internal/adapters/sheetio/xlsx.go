package sheetio

import (
	"bytes"
	"fmt"

	"github.com/okian/juryboard/internal/domain/grid"
	"github.com/xuri/excelize/v2"
)

// XLSXDecoder decodes Office Open XML workbooks.
type XLSXDecoder struct{}

// NewXLSXDecoder creates a new XLSX decoder.
func NewXLSXDecoder() *XLSXDecoder {
	return &XLSXDecoder{}
}

// Decode reads the first sheet. Cell values are taken raw so numeric cells
// are not distorted by their display format.
func (d *XLSXDecoder) Decode(data []byte) (*grid.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrNoSheets)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrDecode, sheets[0], err)
	}
	return grid.FromStrings(rows), nil
}
