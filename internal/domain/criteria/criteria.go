// Package criteria holds the fixed evaluation criteria and locates the
// column that carries each of them inside a sheet.
package criteria

import (
	"fmt"
	"strings"

	"github.com/okian/juryboard/internal/domain/grid"
	"golang.org/x/text/cases"
)

// Count is the number of criteria every sheet must carry.
const Count = 5

// Criterion is one evaluation dimension.
type Criterion struct {
	ID       int      `json:"id"`
	Keywords []string `json:"keywords"`
	Weight   float64  `json:"weight"`
}

// table is ordered by ID and never mutated after init.
var table = [Count]Criterion{
	{ID: 1, Keywords: []string{"сотрудничества", "сотворчества"}, Weight: 1.4},
	{ID: 2, Keywords: []string{"самостоятельности", "инициативности"}, Weight: 1.3},
	{ID: 3, Keywords: []string{"креативности"}, Weight: 1.0},
	{ID: 4, Keywords: []string{"планирование"}, Weight: 0.9},
	{ID: 5, Keywords: []string{"уверенности"}, Weight: 0.8},
}

// folded keywords, index-aligned with table.
var foldedKeywords = func() [Count][]string {
	var out [Count][]string
	caser := cases.Fold()
	for i, c := range table {
		for _, kw := range c.Keywords {
			out[i] = append(out[i], caser.String(kw))
		}
	}
	return out
}()

// Table returns a copy of the criteria in ID order.
func Table() []Criterion {
	out := make([]Criterion, Count)
	for i, c := range table {
		out[i] = Criterion{
			ID:       c.ID,
			Keywords: append([]string(nil), c.Keywords...),
			Weight:   c.Weight,
		}
	}
	return out
}

// Weight returns the weight for a criterion id, or false for unknown ids.
func Weight(id int) (float64, bool) {
	if id < 1 || id > Count {
		return 0, false
	}
	return table[id-1].Weight, true
}

// ColumnMap maps criterion id to the column index holding its scores.
type ColumnMap map[int]int

// Complete reports whether every criterion has a column.
func (m ColumnMap) Complete() bool {
	for id := 1; id <= Count; id++ {
		if _, ok := m[id]; !ok {
			return false
		}
	}
	return true
}

// Locate scans every cell of g in row-major order and attributes a column to
// a criterion whenever the cell text contains one of its keywords. Later
// matches overwrite earlier ones. Header rows are not assumed to be at the
// top, so the whole grid is scanned.
func Locate(g *grid.Grid) (ColumnMap, error) {
	caser := cases.Fold()
	found := make(ColumnMap, Count)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := g.At(r, c)
			if cell.Kind() != grid.Text {
				continue
			}
			text := caser.String(cell.String())
			for i, kws := range foldedKeywords {
				if containsAny(text, kws) {
					found[table[i].ID] = c
				}
			}
		}
	}
	if !found.Complete() {
		return found, fmt.Errorf("%w: found %d of %d", ErrIncomplete, len(found), Count)
	}
	return found, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
