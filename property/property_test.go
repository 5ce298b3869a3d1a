package property

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitializeIdempotent(t *testing.T) {
	Convey("Given a finite-time reach-avoid property", t, func() {
		p, err := New[float64](FiniteTimeReachAvoid, 5, 0, []int{2}, []int{1}, nil, 0, 3)
		So(err, ShouldBeNil)

		Convey("repeated Initialize calls produce the same array", func() {
			a := make([]float64, 3)
			b := make([]float64, 3)
			p.Initialize(a)
			p.Initialize(a)
			p.Initialize(b)
			So(a, ShouldResemble, b)
		})
	})
}

func TestValidateRejectsOverlappingReachAvoid(t *testing.T) {
	Convey("Given reach and avoid sets that intersect", t, func() {
		_, err := New[float64](FiniteTimeReachAvoid, 5, 0, []int{1}, []int{1}, nil, 0, 3)

		Convey("construction fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidateRejectsZeroHorizonFiniteTime(t *testing.T) {
	Convey("Given a finite-time property with a zero horizon", t, func() {
		_, err := New[float64](FiniteTimeReachability, 0, 0, nil, nil, nil, 0, 3)

		Convey("construction fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestExpandDFASlab(t *testing.T) {
	Convey("Given a 2x3 joint shape with DFA axis 1 and accepting states {2}", t, func() {
		shape := []int{2, 3}

		Convey("ExpandDFASlab returns every linear index whose DFA coordinate is 2", func() {
			got := ExpandDFASlab(shape, 1, []int{2})
			So(got, ShouldResemble, []int{2, 5})
		})
	})
}
