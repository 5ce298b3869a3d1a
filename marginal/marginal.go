// Package marginal wraps an ambiguity set with the dependence metadata that
// lets a factored system pick the right column for a given (state, action)
// tuple (§3.2).
package marginal

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
)

// Set is the subset of ambiguity.Dense/ambiguity.Sparse that a marginal
// needs to know about without committing to a representation; the Bellman
// kernels type-switch on the concrete type to get at columns.
type Set[T num.Real] interface {
	NumTarget() int
	NumSource() int
	SumLower(j int) T
}

// Marginal is one ambiguity set plus which state/action axes it depends on.
type Marginal[T num.Real] struct {
	set           Set[T]
	stateIndices  []int
	actionIndices []int
	sourceShape   []int
	actionShape   []int
}

// New builds a Marginal, validating that the dependence shapes multiply out
// to the ambiguity set's source-column count (§4.7's dimension checks,
// applied at the marginal level).
func New[T num.Real](set Set[T], stateIndices, actionIndices, sourceShape, actionShape []int) (*Marginal[T], error) {
	if len(stateIndices) != len(sourceShape) {
		return nil, fmt.Errorf("marginal: %w: %d state indices vs %d source shape entries", ierrors.ErrDimensionMismatch, len(stateIndices), len(sourceShape))
	}
	if len(actionIndices) != len(actionShape) {
		return nil, fmt.Errorf("marginal: %w: %d action indices vs %d action shape entries", ierrors.ErrDimensionMismatch, len(actionIndices), len(actionShape))
	}
	want := product(sourceShape) * product(actionShape)
	if set.NumSource() != want {
		return nil, fmt.Errorf("marginal: %w: ambiguity set has %d source columns, dependence shape implies %d", ierrors.ErrDimensionMismatch, set.NumSource(), want)
	}
	return &Marginal[T]{
		set:           set,
		stateIndices:  append([]int(nil), stateIndices...),
		actionIndices: append([]int(nil), actionIndices...),
		sourceShape:   append([]int(nil), sourceShape...),
		actionShape:   append([]int(nil), actionShape...),
	}, nil
}

// Set returns the wrapped ambiguity set.
func (m *Marginal[T]) Set() Set[T] { return m.set }

// StateIndices returns the state-axis indices this marginal depends on.
func (m *Marginal[T]) StateIndices() []int { return m.stateIndices }

// ActionIndices returns the action-axis indices this marginal depends on.
func (m *Marginal[T]) ActionIndices() []int { return m.actionIndices }

// ColumnIndex linearizes the subset of state/action selected by
// stateIndices/actionIndices (drawn from the full state and action tuples)
// into the column index of the underlying ambiguity set.
func (m *Marginal[T]) ColumnIndex(state, action []int) (int, error) {
	sourceIdx, err := linearize(state, m.stateIndices, m.sourceShape)
	if err != nil {
		return 0, fmt.Errorf("marginal: state tuple: %w", err)
	}
	actionIdx, err := linearize(action, m.actionIndices, m.actionShape)
	if err != nil {
		return 0, fmt.Errorf("marginal: action tuple: %w", err)
	}
	return sourceIdx*product(m.actionShape) + actionIdx, nil
}

func linearize(full []int, indices, shape []int) (int, error) {
	idx := 0
	for k, axis := range indices {
		if axis < 0 || axis >= len(full) {
			return 0, fmt.Errorf("%w: axis %d out of tuple range [0,%d)", ierrors.ErrInvalidState, axis, len(full))
		}
		v := full[axis]
		if v < 0 || v >= shape[k] {
			return 0, fmt.Errorf("%w: value %d out of range [0,%d) for axis %d", ierrors.ErrInvalidState, v, shape[k], axis)
		}
		idx = idx*shape[k] + v
	}
	return idx, nil
}

func product(shape []int) int {
	p := 1
	for _, s := range shape {
		p *= s
	}
	return p
}
