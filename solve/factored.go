package solve

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/bellman"
	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/marginal"
	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/property"
	"github.com/niceyeti/robustmdp/strategy"
)

// FactoredSystem is the subset of system.Factored the driver needs, declared
// as an interface so the solve package does not import system;
// *system.Factored satisfies it.
type FactoredSystem[T num.Real] interface {
	StateVars() []int
	ActionVars() []int
	SourceDims() []int
	Marginals() []*marginal.Marginal[T]
	N() int
}

// FactoredOptions configures a factored-system solve (§4.2's factored
// kernel, driven by the same §4.5 loop as the non-factored case).
type FactoredOptions[T num.Real] struct {
	System    FactoredSystem[T]
	Spec      *property.Specification[T]
	Criteria  Criteria[T]
	Cache     strategy.Cache[T]
	Algorithm bellman.Algorithm
}

// SolveFactored runs the §4.5 value-iteration driver over a factored or
// product system, computing each source state's joint Bellman value via the
// requested factored kernel (vertex enumeration, LP-McCormick for N=2, or
// the O-maximization baseline relaxation).
func SolveFactored[T num.Real](opts FactoredOptions[T]) (Result[T], error) {
	sys := opts.System
	stateVars := sys.StateVars()
	actionVars := sys.ActionVars()
	sourceDims := sys.SourceDims()
	numStates := productOf(stateVars)
	numActions := productOf(actionVars)

	vf := ValueFunction[T]{Current: make([]T, numStates), Previous: make([]T, numStates)}
	p := opts.Spec.Property
	p.Initialize(vf.Current)
	copy(vf.Previous, vf.Current)

	upperBound := opts.Spec.UpperBound()
	maximize := opts.Spec.MaximizeStrategy()

	stepSources := make([]int, 0, numStates)
	// Enumerate every joint source-state tuple once; sink states are handled
	// by a deterministic self-loop rather than a Bellman evaluation.
	stateTuples := enumerateTuples(stateVars)
	actionTuples := enumerateTuples(actionVars)
	for lin, tuple := range stateTuples {
		sink := false
		for i, v := range tuple {
			if v >= sourceDims[i] {
				sink = true
				break
			}
		}
		if !sink {
			stepSources = append(stepSources, lin)
		}
	}

	runStep := func() error {
		vNext := make([]T, numStates)
		copy(vNext, vf.Current) // sinks keep their current value (self-loop)
		for _, jSource := range stepSources {
			actionValues := make([]T, numActions)
			for jAction := 0; jAction < numActions; jAction++ {
				val, err := jointColumnExpectation(vf.Current, sys, stateTuples[jSource], actionTuples[jAction], upperBound, maximize, opts.Algorithm)
				if err != nil {
					return fmt.Errorf("solve: factored step: %w", err)
				}
				actionValues[jAction] = val
			}
			vNext[jSource] = opts.Cache.Extract(actionValues, jSource, maximize)
		}
		copy(vf.Current, vNext)
		p.StepPostprocess(vf.Current)
		opts.Cache.StepPostProcess()
		return nil
	}

	if err := runStep(); err != nil {
		return Result[T]{}, err
	}
	k := 1
	residual := residualOf(vf)

	for !opts.Criteria.Terminate(k, residual) {
		copy(vf.Previous, vf.Current)
		if err := runStep(); err != nil {
			return Result[T]{}, err
		}
		residual = residualOf(vf)
		k++
	}

	p.FinalPostprocess(vf.Current)

	return Result[T]{
		Value:      vf.Current,
		Iterations: k,
		Residual:   residual,
		Cache:      opts.Cache,
	}, nil
}

// jointColumnExpectation computes one (source state, action) pair's joint
// O-max-equivalent expectation for a factored system, dispatching on the
// selected Bellman algorithm (§4.8).
func jointColumnExpectation[T num.Real](
	v []T,
	sys FactoredSystem[T],
	stateTuple, actionTuple []int,
	upperBound, maximize bool,
	alg bellman.Algorithm,
) (T, error) {
	marginals := sys.Marginals()
	shape := sys.StateVars()

	axisCols := make([]bellman.AxisColumn[T], len(marginals))
	for i, m := range marginals {
		j, err := m.ColumnIndex(stateTuple, actionTuple)
		if err != nil {
			return 0, fmt.Errorf("axis %d: %w", i, err)
		}
		lower, gap, err := axisColumn[T](m.Set(), j)
		if err != nil {
			return 0, fmt.Errorf("axis %d: %w", i, err)
		}
		axisCols[i] = bellman.AxisColumn[T]{Lower: lower, Gap: gap}
	}

	switch alg {
	case bellman.VertexEnumeration:
		return bellman.VertexEnumerateColumn(v, shape, axisCols, upperBound)

	case bellman.LPMcCormickRelaxation:
		if len(axisCols) != 2 {
			return 0, fmt.Errorf("solve: %w: LP-McCormick path is wired for exactly 2 marginal axes, got %d", ierrors.ErrIncompatible, len(axisCols))
		}
		v64, lower1, upper1, lower2, upper2 := toFloat64Pair(v, axisCols)
		val, err := bellman.LPMcCormickPair(v64, lower1, upper1, lower2, upper2, upperBound)
		if err != nil {
			return 0, err
		}
		return T(val), nil

	default: // OMaximization baseline
		return bellman.OMaxBaselineColumn(v, shape, axisCols, upperBound), nil
	}
}

// axisColumn materializes the dense (lower, gap) column of length
// numTarget for source column j, regardless of the underlying ambiguity
// set's representation.
func axisColumn[T num.Real](set marginal.Set[T], j int) (lower, gap []T, err error) {
	switch s := set.(type) {
	case *ambiguity.Dense[T]:
		l, g := s.Column(j)
		return l, g, nil
	case *ambiguity.Sparse[T]:
		numTarget := s.NumTarget()
		lower = make([]T, numTarget)
		gap = make([]T, numTarget)
		rows, lv, gv := s.Column(j)
		for k, row := range rows {
			lower[row] = lv[k]
			gap[row] = gv[k]
		}
		return lower, gap, nil
	default:
		return nil, nil, fmt.Errorf("solve: %w: unrecognized ambiguity set representation %T", ierrors.ErrIncompatible, set)
	}
}

func toFloat64Pair[T num.Real](v []T, axisCols []bellman.AxisColumn[T]) (v64, lower1, upper1, lower2, upper2 []float64) {
	v64 = make([]float64, len(v))
	for i, x := range v {
		v64[i] = float64(x)
	}
	n1, n2 := len(axisCols[0].Lower), len(axisCols[1].Lower)
	lower1, upper1 = make([]float64, n1), make([]float64, n1)
	for i := 0; i < n1; i++ {
		lower1[i] = float64(axisCols[0].Lower[i])
		upper1[i] = float64(axisCols[0].Lower[i] + axisCols[0].Gap[i])
	}
	lower2, upper2 = make([]float64, n2), make([]float64, n2)
	for i := 0; i < n2; i++ {
		lower2[i] = float64(axisCols[1].Lower[i])
		upper2[i] = float64(axisCols[1].Lower[i] + axisCols[1].Gap[i])
	}
	return
}

func productOf(shape []int) int {
	p := 1
	for _, s := range shape {
		p *= s
	}
	return p
}

// enumerateTuples returns every multi-index tuple over shape, in linear
// (row-major) order, i.e. enumerateTuples(shape)[lin] is the tuple whose
// linearization over shape equals lin.
func enumerateTuples(shape []int) [][]int {
	total := productOf(shape)
	out := make([][]int, total)
	idx := make([]int, len(shape))
	for lin := 0; lin < total; lin++ {
		tuple := make([]int, len(shape))
		copy(tuple, idx)
		out[lin] = tuple
		for axis := len(shape) - 1; axis >= 0; axis-- {
			idx[axis]++
			if idx[axis] < shape[axis] {
				break
			}
			idx[axis] = 0
		}
	}
	return out
}
