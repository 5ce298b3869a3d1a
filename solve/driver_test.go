package solve

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/property"
	"github.com/niceyeti/robustmdp/strategy"
)

// twoStateSystem builds a 2-state, 1-action-per-state IMDP: state 0 can
// move to state 1 (the reach target) or stay, within the given interval;
// state 1 is an absorbing sink.
func twoStateSystem(t *testing.T, lower0, upper0 [2]float64) (*ambiguity.Dense[float64], []int32) {
	t.Helper()
	set, err := ambiguity.NewDenseFromBounds(
		[][]float64{{lower0[0], lower0[1]}, {0, 1}},
		[][]float64{{upper0[0], upper0[1]}, {0, 1}},
	)
	if err != nil {
		t.Fatalf("building test system: %v", err)
	}
	return set, []int32{0, 1, 2}
}

func TestFiniteReachabilityOneStep(t *testing.T) {
	Convey("Given a 2-state IMDP with exact (degenerate) transitions", t, func() {
		set, stateptr := twoStateSystem(t, [2]float64{0.5, 0.5}, [2]float64{0.5, 0.5})
		prop, err := property.New[float64](property.FiniteTimeReachability, 1, 0, []int{1}, nil, nil, 0, 2)
		So(err, ShouldBeNil)
		spec := &property.Specification[float64]{Property: prop, SatisfactionMode: property.Pessimistic, StrategyMode: property.Maximize}

		Convey("one-step reachability from state 0 equals the transition mass to the reach state", func() {
			result := SolveDense[float64](DenseOptions[float64]{
				Set: set, Stateptr: stateptr, Spec: spec,
				Criteria: FixedIterationsCriteria[float64]{N: 1},
				Cache:    strategy.NoneCache[float64]{},
			})
			So(result.Iterations, ShouldEqual, 1)
			So(result.Value[0], ShouldAlmostEqual, 0.5, 1e-12)
			So(result.Value[1], ShouldEqual, 1.0)
		})
	})
}

func TestPessimisticLessThanOptimistic(t *testing.T) {
	Convey("Given a 2-state IMDP with a genuine (non-degenerate) interval", t, func() {
		set, stateptr := twoStateSystem(t, [2]float64{0.3, 0.4}, [2]float64{0.5, 0.6})
		prop, err := property.New[float64](property.FiniteTimeReachability, 1, 0, []int{1}, nil, nil, 0, 2)
		So(err, ShouldBeNil)

		pessSpec := &property.Specification[float64]{Property: prop, SatisfactionMode: property.Pessimistic, StrategyMode: property.Maximize}
		optSpec := &property.Specification[float64]{Property: prop, SatisfactionMode: property.Optimistic, StrategyMode: property.Maximize}

		pess := SolveDense[float64](DenseOptions[float64]{
			Set: set, Stateptr: stateptr, Spec: pessSpec,
			Criteria: FixedIterationsCriteria[float64]{N: 1},
			Cache:    strategy.NoneCache[float64]{},
		})
		opt := SolveDense[float64](DenseOptions[float64]{
			Set: set, Stateptr: stateptr, Spec: optSpec,
			Criteria: FixedIterationsCriteria[float64]{N: 1},
			Cache:    strategy.NoneCache[float64]{},
		})

		Convey("the pessimistic value is element-wise no greater than the optimistic value", func() {
			for i := range pess.Value {
				So(pess.Value[i], ShouldBeLessThanOrEqualTo, opt.Value[i]+1e-12)
			}
		})
	})
}

func TestImplicitSinkSelfLoop(t *testing.T) {
	Convey("Given a stateptr with an empty trailing block (an implicit sink)", t, func() {
		set, err := ambiguity.NewDenseFromBounds(
			[][]float64{{0.5, 0.5, 0}},
			[][]float64{{0.5, 0.5, 0}},
		)
		So(err, ShouldBeNil)
		// 3 target states, but only source column 0 is real; states 1 and 2
		// have no action block at all (stateptr flat at 1).
		stateptr := []int32{0, 1, 1, 1}

		prop, err := property.New[float64](property.FiniteTimeReachability, 1, 0, []int{1}, nil, nil, 0, 3)
		So(err, ShouldBeNil)
		spec := &property.Specification[float64]{Property: prop, SatisfactionMode: property.Pessimistic, StrategyMode: property.Maximize}

		Convey("sink states retain their initialized value unchanged", func() {
			result := SolveDense[float64](DenseOptions[float64]{
				Set: set, Stateptr: stateptr, Spec: spec,
				Criteria: FixedIterationsCriteria[float64]{N: 1},
				Cache:    strategy.NoneCache[float64]{},
			})
			So(result.Value[2], ShouldEqual, 0.0)
		})
	})
}
