// Package sheetio decodes uploaded workbook bytes into a grid.Grid.
package sheetio

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/juryboard/internal/domain/grid"
)

// Decoder reads the first sheet of a file.
type Decoder interface {
	Decode(data []byte) (*grid.Grid, error)
}

var zipMagic = []byte("PK\x03\x04")

// Factory picks a decoder from the file name, falling back to content
// sniffing when the extension is missing or unknown.
type Factory struct {
	xlsx *XLSXDecoder
	csv  *CSVDecoder
}

// NewFactory creates a new decoder factory.
func NewFactory() *Factory {
	return &Factory{xlsx: NewXLSXDecoder(), csv: NewCSVDecoder()}
}

// ForFile returns the decoder for name.
func (f *Factory) ForFile(name string, data []byte) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return f.xlsx, nil
	case ".csv":
		return f.csv, nil
	}
	if bytes.HasPrefix(data, zipMagic) {
		return f.xlsx, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(name))
}

// Decode resolves the decoder for name and decodes data with it.
func (f *Factory) Decode(name string, data []byte) (*grid.Grid, error) {
	d, err := f.ForFile(name, data)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}
