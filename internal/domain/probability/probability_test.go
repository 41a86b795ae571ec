package probability_test

import (
	"testing"

	"github.com/admitwise/josaa/internal/domain/probability"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHybridEstimator_Estimate(t *testing.T) {
	Convey("Given a hybrid estimator with default bounds", t, func() {
		est := probability.NewHybridEstimator()

		Convey("When the rank beats the opening rank", func() {
			Convey("Then the probability saturates at the ceiling", func() {
				So(est.Estimate(50, 100, 500), ShouldEqual, est.Ceiling())
				So(est.Estimate(100, 100, 500), ShouldEqual, est.Ceiling())
				So(est.Estimate(1, 100, 500), ShouldEqual, est.Ceiling())
			})
		})

		Convey("When the rank lies inside the cutoff interval", func() {
			p := est.Estimate(300, 100, 500)

			Convey("Then the probability is strictly between floor and ceiling", func() {
				So(p, ShouldBeGreaterThan, est.Floor())
				So(p, ShouldBeLessThan, est.Ceiling())
			})

			Convey("And it sits well below the near-opening estimate", func() {
				So(p, ShouldBeLessThan, est.Estimate(120, 100, 500))
			})
		})

		Convey("When the rank falls far beyond the closing rank", func() {
			Convey("Then the probability clamps to the floor, never zero", func() {
				So(est.Estimate(10000, 100, 500), ShouldEqual, est.Floor())
				So(est.Estimate(1000000, 100, 500), ShouldEqual, est.Floor())
			})
		})

		Convey("When the rank is just past the closing rank", func() {
			justInside := est.Estimate(500, 100, 500)
			justBeyond := est.Estimate(510, 100, 500)

			Convey("Then the estimate decays but stays above the floor", func() {
				So(justBeyond, ShouldBeLessThanOrEqualTo, justInside)
				So(justBeyond, ShouldBeGreaterThanOrEqualTo, est.Floor())
			})
		})

		Convey("When the interval is degenerate (opening == closing)", func() {
			Convey("Then estimation never panics and honors the boundaries", func() {
				So(func() { est.Estimate(400, 400, 400) }, ShouldNotPanic)
				So(est.Estimate(400, 400, 400), ShouldEqual, est.Ceiling())
				So(est.Estimate(399, 400, 400), ShouldEqual, est.Ceiling())
				So(est.Estimate(500, 400, 400), ShouldEqual, est.Floor())
			})
		})
	})
}

func TestHybridEstimator_Monotonicity(t *testing.T) {
	Convey("Given a fixed cutoff interval", t, func() {
		est := probability.NewHybridEstimator()
		opening, closing := 1000, 5000

		Convey("Then the estimate never increases as rank worsens", func() {
			prev := est.Estimate(1, opening, closing)
			for rank := 2; rank <= 20000; rank += 7 {
				p := est.Estimate(rank, opening, closing)
				So(p, ShouldBeLessThanOrEqualTo, prev)
				prev = p
			}
		})

		Convey("And every estimate lies within [floor, ceiling]", func() {
			for rank := 1; rank <= 20000; rank += 13 {
				p := est.Estimate(rank, opening, closing)
				So(p, ShouldBeGreaterThanOrEqualTo, est.Floor())
				So(p, ShouldBeLessThanOrEqualTo, est.Ceiling())
			}
		})
	})
}

func TestHybridEstimator_Options(t *testing.T) {
	Convey("Given custom bounds", t, func() {
		est := probability.NewHybridEstimator(probability.WithBounds(5, 90))

		Convey("Then the configured ceiling and floor apply", func() {
			So(est.Estimate(10, 100, 500), ShouldEqual, 90)
			So(est.Estimate(100000, 100, 500), ShouldEqual, 5)
		})
	})

	Convey("Given invalid bounds", t, func() {
		est := probability.NewHybridEstimator(probability.WithBounds(90, 5))

		Convey("Then the defaults are kept", func() {
			So(est.Ceiling(), ShouldEqual, 98)
			So(est.Floor(), ShouldEqual, 2)
		})
	})
}

func TestBand(t *testing.T) {
	Convey("Given the interpretation bands", t, func() {
		Convey("Then probabilities map to the documented labels", func() {
			So(probability.Band(97), ShouldEqual, "Very High Chance")
			So(probability.Band(85), ShouldEqual, "High Chance")
			So(probability.Band(65), ShouldEqual, "Moderate Chance")
			So(probability.Band(45), ShouldEqual, "Low Chance")
			So(probability.Band(10), ShouldEqual, "Very Low Chance")
			So(probability.Band(2), ShouldEqual, "Unlikely")
		})
	})
}
