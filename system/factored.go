// Package system implements the factored robust MDP (§3.3) and its product
// process extension (§3.4). An ordinary (non-factored) IMDP is the special
// case N = M = 1.
package system

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/marginal"
	"github.com/niceyeti/robustmdp/num"
)

// Factored is a system with state_vars/action_vars cardinalities, a
// source_dims truncation for implicit sink states, and one marginal per
// target axis.
type Factored[T num.Real] struct {
	stateVars     []int
	actionVars    []int
	sourceDims    []int
	marginals     []*marginal.Marginal[T]
	initialStates [][]int
	allInitial    bool
}

// New constructs a Factored system, validating the §4.7-style dimension and
// index checks that apply at system construction.
func New[T num.Real](stateVars, actionVars, sourceDims []int, marginals []*marginal.Marginal[T], initialStates [][]int) (*Factored[T], error) {
	if len(marginals) != len(stateVars) {
		return nil, fmt.Errorf("system: %w: %d marginals for %d target axes", ierrors.ErrDimensionMismatch, len(marginals), len(stateVars))
	}
	if sourceDims == nil {
		sourceDims = append([]int(nil), stateVars...)
	}
	if len(sourceDims) != len(stateVars) {
		return nil, fmt.Errorf("system: %w: source_dims length %d, want %d", ierrors.ErrDimensionMismatch, len(sourceDims), len(stateVars))
	}
	for i, sd := range sourceDims {
		if sd < 0 || sd > stateVars[i] {
			return nil, fmt.Errorf("system: %w: source_dims[%d]=%d out of [0,%d]", ierrors.ErrInvalidState, i, sd, stateVars[i])
		}
	}

	allInitial := len(initialStates) == 0
	for _, tuple := range initialStates {
		if len(tuple) != len(stateVars) {
			return nil, fmt.Errorf("system: %w: initial state tuple has arity %d, want %d", ierrors.ErrInvalidState, len(tuple), len(stateVars))
		}
		for i, v := range tuple {
			if v < 0 || v >= stateVars[i] {
				return nil, fmt.Errorf("system: %w: initial state tuple value %d out of [0,%d) on axis %d", ierrors.ErrInvalidState, v, stateVars[i], i)
			}
		}
	}

	return &Factored[T]{
		stateVars:     append([]int(nil), stateVars...),
		actionVars:    append([]int(nil), actionVars...),
		sourceDims:    sourceDims,
		marginals:     marginals,
		initialStates: initialStates,
		allInitial:    allInitial,
	}, nil
}

// NewNonFactored wraps a single ambiguity set as the N=M=1 special case.
func NewNonFactored[T num.Real](set marginal.Set[T], numStates, numActions int, initialStates [][]int) (*Factored[T], error) {
	m, err := marginal.New[T](set, []int{0}, []int{0}, []int{numStates}, []int{numActions})
	if err != nil {
		return nil, err
	}
	return New[T]([]int{numStates}, []int{numActions}, nil, []*marginal.Marginal[T]{m}, initialStates)
}

func (f *Factored[T]) StateVars() []int  { return f.stateVars }
func (f *Factored[T]) ActionVars() []int { return f.actionVars }
func (f *Factored[T]) SourceDims() []int { return f.sourceDims }
func (f *Factored[T]) Marginals() []*marginal.Marginal[T] { return f.marginals }

// N is the number of target (state) axes.
func (f *Factored[T]) N() int { return len(f.stateVars) }

// M is the number of action axes.
func (f *Factored[T]) M() int { return len(f.actionVars) }

// NumStates is the total joint state count (product of state_vars).
func (f *Factored[T]) NumStates() int { return product(f.stateVars) }

// NumActions is the total joint action count (product of action_vars).
func (f *Factored[T]) NumActions() int { return product(f.actionVars) }

// IsSink reports whether the given state tuple lies outside source_dims,
// i.e. is an implicit sink that deterministically self-loops.
func (f *Factored[T]) IsSink(state []int) bool {
	for i, v := range state {
		if v >= f.sourceDims[i] {
			return true
		}
	}
	return false
}

// AllInitial reports whether every state is an initial state.
func (f *Factored[T]) AllInitial() bool { return f.allInitial }

// InitialStates returns the explicit initial-state tuples, if not AllInitial.
func (f *Factored[T]) InitialStates() [][]int { return f.initialStates }

func product(shape []int) int {
	p := 1
	for _, s := range shape {
		p *= s
	}
	return p
}
