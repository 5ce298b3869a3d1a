package strategy

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStationaryCache(t *testing.T) {
	Convey("Given a stationary cache over 2 states", t, func() {
		c := NewStationaryCache[float64](2)

		Convey("Extract records the arg-max action and returns the max value", func() {
			got := c.Extract([]float64{0.2, 0.9, 0.5}, 0, true)
			So(got, ShouldEqual, 0.9)
			So(c.Actions[0], ShouldEqual, 1)
		})

		Convey("Extract records the arg-min action and returns the min value", func() {
			got := c.Extract([]float64{0.2, 0.9, 0.5}, 1, false)
			So(got, ShouldEqual, 0.2)
			So(c.Actions[1], ShouldEqual, 0)
		})
	})
}

func TestTimeVaryingCacheHistory(t *testing.T) {
	Convey("Given a time-varying cache that runs two steps", t, func() {
		c := NewTimeVaryingCache[float64](1)

		c.Extract([]float64{1, 2}, 0, true)
		c.StepPostProcess()
		c.Extract([]float64{5, 3}, 0, true)
		c.StepPostProcess()

		Convey("History is recorded in run order and Reversed flips it", func() {
			So(len(c.History), ShouldEqual, 2)
			So(c.History[0][0], ShouldEqual, 1)
			So(c.History[1][0], ShouldEqual, 0)

			rev := c.Reversed()
			So(rev[0][0], ShouldEqual, 0)
			So(rev[1][0], ShouldEqual, 1)
		})
	})
}

func TestStrategyValidate(t *testing.T) {
	Convey("Given a stationary strategy with an out-of-range action", t, func() {
		s := &Strategy{Kind: Stationary, StationaryActions: []int{0, 5}}

		Convey("Validate rejects it", func() {
			err := s.Validate(2, 3)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a well-formed stationary strategy", t, func() {
		s := &Strategy{Kind: Stationary, StationaryActions: []int{0, 2}}

		Convey("Validate accepts it", func() {
			err := s.Validate(2, 3)
			So(err, ShouldBeNil)
		})
	})
}
