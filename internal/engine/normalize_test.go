package engine_test

import (
	"strings"
	"testing"

	"github.com/admitwise/josaa/internal/adapters/dataset"
	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/internal/engine"
	. "github.com/smartystreets/goconvey/convey"
)

const normalizeCSV = `Institute,Academic Program Name,Category,College Type,Round,Opening Rank,Closing Rank
IIT Bombay,Computer Science and Engineering,OPEN,IIT,1,1,68
NIT Trichy,Electrical Engineering,OPEN,NIT,2,1800,3900
IIT Bombay,Computer Science and Engineering,SC,IIT,1,5,40
`

func normalizeTable() *dataset.Table {
	table, err := dataset.LoadFrom(strings.NewReader(normalizeCSV))
	if err != nil {
		panic(err)
	}
	return table
}

func validRaw() engine.RawQuery {
	return engine.RawQuery{
		JEERank:         1200,
		Category:        "OPEN",
		CollegeType:     "ALL",
		PreferredBranch: "ALL",
		RoundNo:         1,
		MinProbability:  30,
	}
}

func TestNormalize(t *testing.T) {
	Convey("Given a loaded table", t, func() {
		table := normalizeTable()

		Convey("When the raw query is fully valid", func() {
			q, err := engine.Normalize(validRaw(), table)

			Convey("Then it canonicalizes every field", func() {
				So(err, ShouldBeNil)
				So(q.JEERank, ShouldEqual, 1200)
				So(q.Category, ShouldEqual, model.CategoryOpen)
				So(q.CollegeTypeAll, ShouldBeTrue)
				So(q.WantsBranch(), ShouldBeFalse)
				So(q.RoundNo, ShouldEqual, 1)
				So(q.MinProbability, ShouldEqual, 30)
			})
		})

		Convey("When the rank is not positive", func() {
			raw := validRaw()
			raw.JEERank = 0
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrInvalidRank)
		})

		Convey("When the category is unknown", func() {
			raw := validRaw()
			raw.Category = "GENERAL"
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrInvalidCategory)
		})

		Convey("When the category differs only in case", func() {
			raw := validRaw()
			raw.Category = "open"
			q, err := engine.Normalize(raw, table)

			So(err, ShouldBeNil)
			So(q.Category, ShouldEqual, model.CategoryOpen)
		})

		Convey("When the college type is unknown", func() {
			raw := validRaw()
			raw.CollegeType = "BITS"
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrInvalidCollegeType)
		})

		Convey("When the branch is absent from the dataset", func() {
			raw := validRaw()
			raw.PreferredBranch = "Marine Engineering"
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrUnknownBranch)
		})

		Convey("When the branch matches in a different case", func() {
			raw := validRaw()
			raw.PreferredBranch = "COMPUTER SCIENCE AND ENGINEERING"
			q, err := engine.Normalize(raw, table)

			So(err, ShouldBeNil)
			So(q.PreferredBranch, ShouldEqual, "computer science and engineering")
		})

		Convey("When the branch is empty", func() {
			raw := validRaw()
			raw.PreferredBranch = "  "
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrUnknownBranch)
		})

		Convey("When the round exceeds the dataset's maximum", func() {
			raw := validRaw()
			raw.RoundNo = 7
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrInvalidRound)
		})

		Convey("When the round is not positive", func() {
			raw := validRaw()
			raw.RoundNo = 0
			_, err := engine.Normalize(raw, table)

			So(err, ShouldWrap, engine.ErrInvalidRound)
		})

		Convey("When the probability threshold is out of range", func() {
			Convey("Then values below zero clamp to zero", func() {
				raw := validRaw()
				raw.MinProbability = -5
				q, err := engine.Normalize(raw, table)
				So(err, ShouldBeNil)
				So(q.MinProbability, ShouldEqual, 0)
			})

			Convey("Then values above one hundred clamp to one hundred", func() {
				raw := validRaw()
				raw.MinProbability = 250
				q, err := engine.Normalize(raw, table)
				So(err, ShouldBeNil)
				So(q.MinProbability, ShouldEqual, 100)
			})
		})
	})
}
