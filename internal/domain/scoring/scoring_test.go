package scoring_test

import (
	"errors"
	"testing"

	scoring "github.com/okian/juryboard/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRound1(t *testing.T) {
	Convey("Given values on and around the one-decimal boundary", t, func() {
		So(scoring.Round1(0.25), ShouldEqual, 0.3)
		So(scoring.Round1(-0.25), ShouldEqual, -0.3)
		So(scoring.Round1(1.04), ShouldEqual, 1.0)
		So(scoring.Round1(12.0), ShouldEqual, 12.0)
		So(scoring.Round1(0), ShouldEqual, 0)
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given two judges with whole marks", t, func() {
		judges := []scoring.Marks{
			{5, 4, 3, 2, 1},
			{4, 4, 4, 4, 4},
		}

		Convey("When aggregating", func() {
			res, err := scoring.Aggregate(judges)
			So(err, ShouldBeNil)

			Convey("Then each criterion is the weighted, rounded sum", func() {
				So(res.Criteria[0], ShouldEqual, 12.6) // (5+4)*1.4
				So(res.Criteria[1], ShouldEqual, 10.4) // (4+4)*1.3
				So(res.Criteria[2], ShouldEqual, 7.0)  // (3+4)*1.0
				So(res.Criteria[3], ShouldEqual, 5.4)  // (2+4)*0.9
				So(res.Criteria[4], ShouldEqual, 4.0)  // (1+4)*0.8
			})

			Convey("And the total and tie-break are rounded to one decimal", func() {
				So(res.Total, ShouldEqual, 39.4)
				So(res.TieBreak, ShouldEqual, 23.0)
			})
		})
	})

	Convey("Given marks whose weighted scores sit on the rounding boundary", t, func() {
		judges := []scoring.Marks{
			{0, 0, 0.25, 0, 0.3125},
			{0, 0, 0, 0, 0},
		}

		Convey("Then the total accumulates unrounded contributions", func() {
			res, err := scoring.Aggregate(judges)
			So(err, ShouldBeNil)
			So(res.Criteria[2], ShouldEqual, 0.3)
			So(res.Total, ShouldEqual, 0.5)
			So(res.TieBreak, ShouldEqual, 0)
		})
	})

	Convey("Given the wrong number of judges", t, func() {
		Convey("Then a single judge is rejected", func() {
			_, err := scoring.Aggregate([]scoring.Marks{{1, 1, 1, 1, 1}})
			So(errors.Is(err, scoring.ErrJudgeCount), ShouldBeTrue)
		})

		Convey("Then three judges are rejected", func() {
			_, err := scoring.Aggregate(make([]scoring.Marks, 3))
			So(errors.Is(err, scoring.ErrJudgeCount), ShouldBeTrue)
		})
	})
}
