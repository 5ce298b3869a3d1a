package bellman

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestColumnExpectation(t *testing.T) {
	Convey("Given V = 1..15 and a column with lower {4:0.1, 10:0.2}, gap {1:0.5, 4:0.5, 10:0.5}", t, func() {
		v := make([]float64, 15)
		for i := range v {
			v[i] = float64(i + 1)
		}
		lower := make([]float64, 15)
		lower[3] = 0.1 // index 4 is position 3
		lower[9] = 0.2 // index 10 is position 9

		Convey("the upper-bound kernel matches the worked scenario (0.3*4 + 0.7*10 = 8.2)", func() {
			gap := make([]float64, 15)
			gap[0] = 0.5  // index 1
			gap[3] = 0.5  // index 4
			gap[9] = 0.5  // index 10
			perm := SortPerm(v, true)
			sumLower := 0.1 + 0.2
			got := ColumnExpectation(v, lower, gap, sumLower, perm)
			So(got, ShouldAlmostEqual, 8.2, 1e-9)
		})

		Convey("the lower-bound kernel matches the worked scenario (0.5*1 + 0.3*4 + 0.2*10 = 3.7)", func() {
			gap := make([]float64, 15)
			gap[0] = 0.5
			gap[3] = 0.5
			gap[9] = 0.5
			perm := SortPerm(v, false)
			sumLower := 0.1 + 0.2
			got := ColumnExpectation(v, lower, gap, sumLower, perm)
			So(got, ShouldAlmostEqual, 3.7, 1e-9)
		})
	})
}

func TestSortPerm(t *testing.T) {
	Convey("Given an unsorted value array", t, func() {
		v := []float64{3, 1, 2}

		Convey("descending perm visits the largest value first", func() {
			perm := SortPerm(v, true)
			So(v[perm[0]], ShouldEqual, 3.0)
			So(v[perm[2]], ShouldEqual, 1.0)
		})

		Convey("ascending perm visits the smallest value first", func() {
			perm := SortPerm(v, false)
			So(v[perm[0]], ShouldEqual, 1.0)
			So(v[perm[2]], ShouldEqual, 3.0)
		})
	})
}
