// Package scoring turns judge marks into weighted per-criterion scores, a
// team total, and the tie-break value used for ranking.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/juryboard/internal/domain/criteria"
)

// JudgesPerSheet is the number of judge rows that contribute to a score.
const JudgesPerSheet = 2

// Marks holds one judge's raw values, indexed by criterion id - 1.
type Marks [criteria.Count]float64

// Result is the weighted outcome for one sheet.
type Result struct {
	// Criteria holds weighted scores, indexed by criterion id - 1.
	Criteria [criteria.Count]float64
	Total    float64
	TieBreak float64
}

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Aggregate sums the judges' marks per criterion and applies the fixed
// weights. The total accumulates the unrounded weighted values; the
// tie-break adds the already rounded scores of criteria 1 and 2.
func Aggregate(judges []Marks) (Result, error) {
	if len(judges) != JudgesPerSheet {
		return Result{}, fmt.Errorf("%w: got %d, want %d", ErrJudgeCount, len(judges), JudgesPerSheet)
	}
	tbl := criteria.Table()

	var res Result
	total := 0.0
	for i, c := range tbl {
		sum := 0.0
		for _, m := range judges {
			sum += m[i]
		}
		weighted := sum * c.Weight
		res.Criteria[i] = Round1(weighted)
		total += weighted
	}
	res.Total = Round1(total)
	res.TieBreak = Round1(res.Criteria[0] + res.Criteria[1])
	return res, nil
}
