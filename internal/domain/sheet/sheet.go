// Package sheet runs the per-file pipeline: find the team code, locate the
// criteria columns, pick the judge rows, and score them.
package sheet

import (
	"fmt"
	"regexp"

	"github.com/okian/juryboard/internal/domain/criteria"
	"github.com/okian/juryboard/internal/domain/grid"
	"github.com/okian/juryboard/internal/domain/model"
	"github.com/okian/juryboard/internal/domain/scoring"
)

// teamCodePattern matches "команды <CODE>" where only the phrase is
// case-insensitive; the code itself is uppercase Latin/Cyrillic or digits.
var teamCodePattern = regexp.MustCompile(`(?i:команды)[\s\p{Zs}]+([A-ZА-ЯЁ0-9]+)`)

// JudgeRow is a grid row that carries a number in every criteria column.
type JudgeRow struct {
	Row   int
	Marks scoring.Marks
}

// ExtractTeamCode returns the code from the first matching cell in row-major
// order.
func ExtractTeamCode(file string, g *grid.Grid) (string, error) {
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := g.At(r, c)
			if cell.IsEmpty() {
				continue
			}
			if m := teamCodePattern.FindStringSubmatch(cell.String()); m != nil {
				return m[1], nil
			}
		}
	}
	return "", NewError(file, ErrTeamCodeNotFound, nil)
}

// SelectJudgeRows keeps the rows that hold a finite number in every mapped
// column and returns the first scoring.JudgesPerSheet of them. Extra rows are
// ignored.
func SelectJudgeRows(file string, g *grid.Grid, cols criteria.ColumnMap) ([]JudgeRow, error) {
	rows := make([]JudgeRow, 0, scoring.JudgesPerSheet)
	for r := 0; r < g.Rows() && len(rows) < scoring.JudgesPerSheet; r++ {
		if jr, ok := judgeRow(g, r, cols); ok {
			rows = append(rows, jr)
		}
	}
	if len(rows) < scoring.JudgesPerSheet {
		return nil, NewError(file, ErrInsufficientJudgeRows,
			fmt.Errorf("%w: found %d, need %d", ErrInsufficientJudgeRows, len(rows), scoring.JudgesPerSheet))
	}
	return rows, nil
}

func judgeRow(g *grid.Grid, r int, cols criteria.ColumnMap) (JudgeRow, bool) {
	jr := JudgeRow{Row: r}
	for id := 1; id <= criteria.Count; id++ {
		c, ok := cols[id]
		if !ok {
			return JudgeRow{}, false
		}
		v, ok := g.At(r, c).Number()
		if !ok {
			return JudgeRow{}, false
		}
		jr.Marks[id-1] = v
	}
	return jr, true
}

// Process turns one decoded sheet into an unranked team record.
func Process(file string, g *grid.Grid) (model.TeamRecord, error) {
	team, err := ExtractTeamCode(file, g)
	if err != nil {
		return model.TeamRecord{}, err
	}

	cols, err := criteria.Locate(g)
	if err != nil {
		return model.TeamRecord{}, NewError(file, ErrCriteriaIncomplete, err)
	}

	rows, err := SelectJudgeRows(file, g, cols)
	if err != nil {
		return model.TeamRecord{}, err
	}

	marks := make([]scoring.Marks, len(rows))
	for i, jr := range rows {
		marks[i] = jr.Marks
	}
	res, err := scoring.Aggregate(marks)
	if err != nil {
		return model.TeamRecord{}, fmt.Errorf("%s: %w", file, err)
	}

	return model.TeamRecord{
		Team:  team,
		K1:    res.Criteria[0],
		K2:    res.Criteria[1],
		K3:    res.Criteria[2],
		K4:    res.Criteria[3],
		K5:    res.Criteria[4],
		Total: res.Total,
		K1K2:  res.TieBreak,
	}, nil
}
