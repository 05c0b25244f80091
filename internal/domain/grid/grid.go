// Package grid models the first sheet of an uploaded workbook as a
// rectangular, read-only grid of tagged cell values.
package grid

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the value held by a Cell.
type Kind uint8

// Cell kinds.
const (
	Empty Kind = iota
	Text
	Number
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a single tagged value. The zero value is an empty cell.
type Cell struct {
	kind Kind
	text string
	num  float64
}

// TextCell builds a text cell. Blank text collapses to an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{kind: Text, text: s}
}

// NumberCell builds a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{kind: Number, num: v}
}

// Classify builds a cell from raw decoder output: blank is Empty, text that
// parses as a finite number is Number, anything else is Text.
func Classify(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	if v, ok := ParseNumber(raw); ok {
		return Cell{kind: Number, num: v, text: raw}
	}
	return Cell{kind: Text, text: raw}
}

// Kind reports the cell's tag.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.kind == Empty }

// String renders the cell as text. Empty cells render as "".
func (c Cell) String() string {
	switch c.kind {
	case Text:
		return c.text
	case Number:
		if c.text != "" {
			return c.text
		}
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Number tries to read the cell as a finite number. Text cells are parsed
// with ParseNumber; empty cells never yield a number.
func (c Cell) Number() (float64, bool) {
	switch c.kind {
	case Number:
		return c.num, true
	case Text:
		return ParseNumber(c.text)
	default:
		return 0, false
	}
}

// ParseNumber parses a decimal number from cell text. Surrounding space is
// ignored and a single comma is accepted as the decimal separator. NaN and
// infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Grid is a rectangular block of cells. Row and column indices are zero-based.
type Grid struct {
	cells [][]Cell
	cols  int
}

// New builds a grid from ragged rows; short rows are padded with empty cells
// up to the widest row.
func New(rows [][]Cell) *Grid {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	cells := make([][]Cell, len(rows))
	for i, r := range rows {
		row := make([]Cell, cols)
		copy(row, r)
		cells[i] = row
	}
	return &Grid{cells: cells, cols: cols}
}

// FromStrings builds a grid by classifying every raw string.
func FromStrings(rows [][]string) *Grid {
	out := make([][]Cell, len(rows))
	for i, r := range rows {
		row := make([]Cell, len(r))
		for j, raw := range r {
			row[j] = Classify(raw)
		}
		out[i] = row
	}
	return New(out)
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at (r, c). Out-of-range coordinates yield an empty cell.
func (g *Grid) At(r, c int) Cell {
	if r < 0 || r >= len(g.cells) || c < 0 || c >= g.cols {
		return Cell{}
	}
	return g.cells[r][c]
}

// Text returns the stringified cell at (r, c), "" when missing.
func (g *Grid) Text(r, c int) string {
	return g.At(r, c).String()
}
