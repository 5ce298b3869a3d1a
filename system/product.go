package system

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/marginal"
	"github.com/niceyeti/robustmdp/num"
)

// Product composes a Factored system with a deterministic finite automaton
// via a labelling function (§3.4). It is represented uniformly as a
// Factored system of dimension N+1, where the extra marginal is a
// degenerate deterministic transition built by newDFAMarginal.
type Product[T num.Real] struct {
	*Factored[T]
	dfaAxis   int
	dfaStates int
}

// DFAAxis returns the index of the state axis that tracks DFA location.
func (p *Product[T]) DFAAxis() int { return p.dfaAxis }

// DFAStates returns the DFA's state count.
func (p *Product[T]) DFAStates() int { return p.dfaStates }

// NewProduct composes base with a DFA of dfaStates locations, given a
// transition function delta(dfaState, symbol) -> nextDFAState and a
// labelling function label(baseState) -> symbol over the base system's
// joint state. The product adds one state axis (cardinality dfaStates) of
// dimension N+1; rewards and reach/avoid sets are expressed against this
// extended state space by the caller.
func NewProduct[T num.Real](base *Factored[T], dfaStates int, delta func(dfaState, symbol int) int, label func(baseState []int) int, initialDFAState int) (*Product[T], error) {
	if dfaStates < 1 {
		return nil, fmt.Errorf("system: %w: dfaStates must be >= 1, got %d", ierrors.ErrDomain, dfaStates)
	}

	dfaAxis := len(base.StateVars())
	stateVars := append(append([]int(nil), base.StateVars()...), dfaStates)

	dfaMarginal, err := newDFAMarginal[T](base.StateVars(), dfaStates, dfaAxis, delta, label)
	if err != nil {
		return nil, err
	}

	marginals := append(append([]*marginal.Marginal[T](nil), base.Marginals()...), dfaMarginal)
	sourceDims := append(append([]int(nil), base.SourceDims()...), dfaStates)

	var initialStates [][]int
	if !base.AllInitial() {
		for _, tuple := range base.InitialStates() {
			initialStates = append(initialStates, append(append([]int(nil), tuple...), initialDFAState))
		}
	}

	extended, err := New[T](stateVars, base.ActionVars(), sourceDims, marginals, initialStates)
	if err != nil {
		return nil, err
	}
	return &Product[T]{Factored: extended, dfaAxis: dfaAxis, dfaStates: dfaStates}, nil
}

// newDFAMarginal builds the degenerate deterministic marginal for the DFA
// axis: a one-hot ambiguity set over (base state tuple, current DFA state)
// -> next DFA state, independent of action.
func newDFAMarginal[T num.Real](baseStateVars []int, dfaStates, dfaAxis int, delta func(dfaState, symbol int) int, label func(baseState []int) int) (*marginal.Marginal[T], error) {
	stateIndices := make([]int, len(baseStateVars)+1)
	sourceShape := make([]int, len(baseStateVars)+1)
	for i := range baseStateVars {
		stateIndices[i] = i
		sourceShape[i] = baseStateVars[i]
	}
	stateIndices[len(baseStateVars)] = dfaAxis
	sourceShape[len(baseStateVars)] = dfaStates

	numSource := product(sourceShape)
	lowerCols := make([][]T, numSource)
	gapCols := make([][]T, numSource)

	tuple := make([]int, len(baseStateVars))
	idx := 0
	var deltaErr error
	var iterate func(axis int)
	iterate = func(axis int) {
		if deltaErr != nil {
			return
		}
		if axis == len(baseStateVars) {
			symbol := label(tuple)
			for dfaState := 0; dfaState < dfaStates; dfaState++ {
				next := delta(dfaState, symbol)
				if next < 0 || next >= dfaStates {
					deltaErr = fmt.Errorf("system: %w: DFA delta(%d,%d) returned out-of-range state %d", ierrors.ErrInvalidState, dfaState, symbol, next)
					return
				}
				col := make([]T, dfaStates)
				col[next] = 1
				lowerCols[idx] = col
				gapCols[idx] = make([]T, dfaStates)
				idx++
			}
			return
		}
		for v := 0; v < baseStateVars[axis]; v++ {
			tuple[axis] = v
			iterate(axis + 1)
		}
	}
	if len(baseStateVars) == 0 {
		for dfaState := 0; dfaState < dfaStates; dfaState++ {
			symbol := label(nil)
			next := delta(dfaState, symbol)
			if next < 0 || next >= dfaStates {
				return nil, fmt.Errorf("system: %w: DFA delta(%d,%d) returned out-of-range state %d", ierrors.ErrInvalidState, dfaState, symbol, next)
			}
			col := make([]T, dfaStates)
			col[next] = 1
			lowerCols[idx] = col
			gapCols[idx] = make([]T, dfaStates)
			idx++
		}
	} else {
		iterate(0)
		if deltaErr != nil {
			return nil, deltaErr
		}
	}

	set, err := ambiguity.NewDense[T](lowerCols, gapCols)
	if err != nil {
		return nil, fmt.Errorf("system: building DFA marginal: %w", err)
	}
	return marginal.New[T](set, stateIndices, nil, sourceShape, nil)
}
