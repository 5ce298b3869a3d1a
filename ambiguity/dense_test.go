package ambiguity

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDenseFromBounds(t *testing.T) {
	Convey("Given valid per-column lower/upper bounds", t, func() {
		lower := [][]float64{{0.1, 0.2, 0.0}}
		upper := [][]float64{{0.5, 0.6, 0.0}}

		Convey("NewDenseFromBounds builds a set with the right sum_lower", func() {
			set, err := NewDenseFromBounds(lower, upper)
			So(err, ShouldBeNil)
			So(set.NumTarget(), ShouldEqual, 3)
			So(set.NumSource(), ShouldEqual, 1)
			So(set.SumLower(0), ShouldAlmostEqual, 0.3, 1e-12)
		})
	})

	Convey("Given a column whose lower bounds already exceed 1", t, func() {
		lower := [][]float64{{0.6, 0.6}}
		upper := [][]float64{{0.6, 0.6}}

		Convey("construction fails", func() {
			_, err := NewDenseFromBounds(lower, upper)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a column whose upper bound is below its lower bound", t, func() {
		lower := [][]float64{{0.5}}
		upper := [][]float64{{0.4}}

		Convey("construction fails", func() {
			_, err := NewDenseFromBounds(lower, upper)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a column whose total probability mass cannot reach 1", t, func() {
		lower := [][]float64{{0.1, 0.1}}
		upper := [][]float64{{0.1, 0.1}}

		Convey("construction fails since sum_lower+sum_gap < 1", func() {
			_, err := NewDenseFromBounds(lower, upper)
			So(err, ShouldNotBeNil)
		})
	})
}
