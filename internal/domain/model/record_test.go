package model_test

import (
	"testing"

	"github.com/admitwise/josaa/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCategory(t *testing.T) {
	Convey("Given raw category strings", t, func() {
		Convey("When the value matches a known category", func() {
			c, ok := model.ParseCategory("OBC-NCL")

			So(ok, ShouldBeTrue)
			So(c, ShouldEqual, model.CategoryOBCNCL)
		})

		Convey("When the value differs in case and spacing", func() {
			c, ok := model.ParseCategory("  open (pwd) ")

			So(ok, ShouldBeTrue)
			So(c, ShouldEqual, model.CategoryOpenPwD)
		})

		Convey("When the value is unknown", func() {
			_, ok := model.ParseCategory("GENERAL")

			So(ok, ShouldBeFalse)
		})

		Convey("When the value is empty", func() {
			_, ok := model.ParseCategory("")

			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseCollegeType(t *testing.T) {
	Convey("Given raw college type strings", t, func() {
		Convey("When the value matches a known type", func() {
			ct, ok := model.ParseCollegeType("gfti")

			So(ok, ShouldBeTrue)
			So(ct, ShouldEqual, model.CollegeGFTI)
		})

		Convey("When the value is unknown", func() {
			_, ok := model.ParseCollegeType("BITS")

			So(ok, ShouldBeFalse)
		})

		Convey("When the value is the wildcard", func() {
			// The wildcard is not a college type; callers handle it before parsing.
			_, ok := model.ParseCollegeType(model.Wildcard)

			So(ok, ShouldBeFalse)
		})
	})
}

func TestRecordKey(t *testing.T) {
	Convey("Given historical records", t, func() {
		base := model.HistoricalRecord{
			Institute:   "IIT Bombay",
			Branch:      "Computer Science and Engineering",
			Category:    model.CategoryOpen,
			CollegeType: model.CollegeIIT,
			RoundNo:     1,
			OpeningRank: 100,
			ClosingRank: 500,
		}

		Convey("When two records differ only in rank columns", func() {
			other := base
			other.OpeningRank = 120
			other.ClosingRank = 480

			Convey("Then they share a key and the later row replaces the earlier", func() {
				So(other.Key(), ShouldEqual, base.Key())
			})
		})

		Convey("When institute casing differs", func() {
			other := base
			other.Institute = "IIT BOMBAY"

			So(other.Key(), ShouldEqual, base.Key())
		})

		Convey("When the round differs", func() {
			other := base
			other.RoundNo = 6

			So(other.Key(), ShouldNotEqual, base.Key())
		})

		Convey("When the category differs", func() {
			other := base
			other.Category = model.CategorySC

			So(other.Key(), ShouldNotEqual, base.Key())
		})
	})
}

func TestQueryCacheKey(t *testing.T) {
	Convey("Given prediction queries", t, func() {
		base := model.PredictionQuery{
			JEERank:        1200,
			Category:       model.CategoryOpen,
			CollegeTypeAll: true,
			RoundNo:        1,
			MinProbability: 30,
		}

		Convey("When two queries are identical", func() {
			So(base.CacheKey(), ShouldEqual, base.CacheKey())
		})

		Convey("When the college type wildcard is replaced by a concrete type", func() {
			other := base
			other.CollegeTypeAll = false
			other.CollegeType = model.CollegeIIT

			So(other.CacheKey(), ShouldNotEqual, base.CacheKey())
		})

		Convey("When only the threshold differs", func() {
			other := base
			other.MinProbability = 60

			So(other.CacheKey(), ShouldNotEqual, base.CacheKey())
		})

		Convey("When a branch filter is present", func() {
			other := base
			other.PreferredBranch = "computer science and engineering"

			So(other.WantsBranch(), ShouldBeTrue)
			So(base.WantsBranch(), ShouldBeFalse)
			So(other.CacheKey(), ShouldNotEqual, base.CacheKey())
		})
	})
}
