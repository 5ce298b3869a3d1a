package solve

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/bellman"
	"github.com/niceyeti/robustmdp/marginal"
	"github.com/niceyeti/robustmdp/property"
	"github.com/niceyeti/robustmdp/strategy"
)

// fakeSystem is a minimal solve.FactoredSystem for exercising SolveFactored
// without depending on the system package.
type fakeSystem struct {
	stateVars, actionVars, sourceDims []int
	marginals                         []*marginal.Marginal[float64]
}

func (f *fakeSystem) StateVars() []int                         { return f.stateVars }
func (f *fakeSystem) ActionVars() []int                        { return f.actionVars }
func (f *fakeSystem) SourceDims() []int                        { return f.sourceDims }
func (f *fakeSystem) Marginals() []*marginal.Marginal[float64] { return f.marginals }
func (f *fakeSystem) N() int                                   { return len(f.stateVars) }

func TestSolveFactoredRoundTripsNonFactored(t *testing.T) {
	Convey("Given the same 2-state IMDP wrapped as an N=M=1 factored system", t, func() {
		set, err := ambiguity.NewDenseFromBounds(
			[][]float64{{0.5, 0.5}, {0, 1}},
			[][]float64{{0.5, 0.5}, {0, 1}},
		)
		So(err, ShouldBeNil)

		m, err := marginal.New[float64](set, []int{0}, []int{0}, []int{2}, []int{1})
		So(err, ShouldBeNil)

		sys := &fakeSystem{
			stateVars:  []int{2},
			actionVars: []int{1},
			sourceDims: []int{2},
			marginals:  []*marginal.Marginal[float64]{m},
		}

		prop, err := property.New[float64](property.FiniteTimeReachability, 1, 0, []int{1}, nil, nil, 0, 2)
		So(err, ShouldBeNil)
		spec := &property.Specification[float64]{Property: prop, SatisfactionMode: property.Pessimistic, StrategyMode: property.Maximize}

		Convey("the factored driver reproduces the non-factored one-step reachability value", func() {
			result, err := SolveFactored[float64](FactoredOptions[float64]{
				System:    sys,
				Spec:      spec,
				Criteria:  FixedIterationsCriteria[float64]{N: 1},
				Cache:     strategy.NoneCache[float64]{},
				Algorithm: bellman.OMaximization,
			})
			So(err, ShouldBeNil)
			So(result.Iterations, ShouldEqual, 1)
			So(result.Value[0], ShouldAlmostEqual, 0.5, 1e-12)
			So(result.Value[1], ShouldEqual, 1.0)
		})

		Convey("vertex enumeration agrees with the O-max baseline in this degenerate (N=1) case", func() {
			omax, err := SolveFactored[float64](FactoredOptions[float64]{
				System: sys, Spec: spec,
				Criteria: FixedIterationsCriteria[float64]{N: 1},
				Cache:    strategy.NoneCache[float64]{}, Algorithm: bellman.OMaximization,
			})
			So(err, ShouldBeNil)
			vertex, err := SolveFactored[float64](FactoredOptions[float64]{
				System: sys, Spec: spec,
				Criteria: FixedIterationsCriteria[float64]{N: 1},
				Cache:    strategy.NoneCache[float64]{}, Algorithm: bellman.VertexEnumeration,
			})
			So(err, ShouldBeNil)
			So(vertex.Value[0], ShouldAlmostEqual, omax.Value[0], 1e-9)
		})
	})
}
