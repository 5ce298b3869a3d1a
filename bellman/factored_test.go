package bellman

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOMaxBaselineColumnBoundedForTwoAxes(t *testing.T) {
	Convey("Given a joint value function over two 2-state axes and an interval ambiguity set per axis", t, func() {
		// shape [2,2]; v linearized as v[s0*2+s1].
		shape := []int{2, 2}
		v := []float64{0.0, 1.0, 0.4, 0.9}

		axisCols := []AxisColumn[float64]{
			{Lower: []float64{0.3, 0.1}, Gap: []float64{0.4, 0.2}},
			{Lower: []float64{0.2, 0.5}, Gap: []float64{0.3, 0.1}},
		}

		minV, maxV := v[0], v[0]
		for _, x := range v {
			if x < minV {
				minV = x
			}
			if x > maxV {
				maxV = x
			}
		}

		Convey("the upper-bound baseline stays within [min(V), max(V)]", func() {
			got := OMaxBaselineColumn(v, shape, axisCols, true)
			So(got, ShouldBeGreaterThanOrEqualTo, minV)
			So(got, ShouldBeLessThanOrEqualTo, maxV)
		})

		Convey("the lower-bound baseline stays within [min(V), max(V)]", func() {
			got := OMaxBaselineColumn(v, shape, axisCols, false)
			So(got, ShouldBeGreaterThanOrEqualTo, minV)
			So(got, ShouldBeLessThanOrEqualTo, maxV)
		})

		Convey("vertex enumeration agrees that the upper bound dominates the lower bound", func() {
			upper, err := VertexEnumerateColumn(v, shape, axisCols, true)
			So(err, ShouldBeNil)
			lower, err := VertexEnumerateColumn(v, shape, axisCols, false)
			So(err, ShouldBeNil)
			So(upper, ShouldBeGreaterThanOrEqualTo, lower)
			So(upper, ShouldBeGreaterThanOrEqualTo, minV)
			So(lower, ShouldBeLessThanOrEqualTo, maxV)
		})
	})
}

func TestContractExceptMatchesJointExpectationAtAReferencePoint(t *testing.T) {
	Convey("Given a joint value function and reference distributions for both axes", t, func() {
		shape := []int{2, 2}
		v := []float64{1.0, 2.0, 3.0, 4.0}
		dists := [][]float64{
			{0.6, 0.4},
			{0.25, 0.75},
		}

		Convey("contracting except axis 0 then dotting with axis 0's own distribution reproduces jointExpectation", func() {
			w := contractExcept(v, shape, dists, 0)
			var got float64
			for i, p := range dists[0] {
				got += p * w[i]
			}
			want := jointExpectation(v, shape, dists)
			So(got, ShouldAlmostEqual, want, 1e-12)
		})
	})
}
