// Package property implements the property/specification model (§3.7, §4.6,
// §4.7): the finite/infinite/exact-time reachability, reach-avoid, safety,
// reward, expected-exit-time, and DFA-product variants, each with its own
// initialize/step-postprocess/final-postprocess hook triple.
package property

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
)

// Kind tags which property variant this is.
type Kind int

const (
	FiniteTimeReachability Kind = iota
	InfiniteTimeReachability
	ExactTimeReachability
	FiniteTimeReachAvoid
	InfiniteTimeReachAvoid
	ExactTimeReachAvoid
	FiniteTimeSafety
	InfiniteTimeSafety
	FiniteTimeReward
	InfiniteTimeReward
	ExpectedExitTime
	FiniteTimeDFAReachability
	InfiniteTimeDFAReachability
	FiniteTimeDFASafety
	InfiniteTimeDFASafety
)

// IsFiniteTime reports whether this kind terminates on a fixed iteration
// count rather than convergence.
func (k Kind) IsFiniteTime() bool {
	switch k {
	case FiniteTimeReachability, ExactTimeReachability, FiniteTimeReachAvoid, ExactTimeReachAvoid,
		FiniteTimeSafety, FiniteTimeReward, ExpectedExitTime, FiniteTimeDFAReachability, FiniteTimeDFASafety:
		return true
	default:
		return false
	}
}

// IsProduct reports whether this kind operates over a DFA-extended state
// space (reach/avoid expressed as a slab across the DFA axis).
func (k Kind) IsProduct() bool {
	switch k {
	case FiniteTimeDFAReachability, InfiniteTimeDFAReachability, FiniteTimeDFASafety, InfiniteTimeDFASafety:
		return true
	default:
		return false
	}
}

// Property bundles a Kind with its parameters (§3.7). Reach/Avoid are
// already-expanded linear indices into the flattened value function (for
// DFA variants, expand a DFA-state set to a full slab with ExpandDFASlab
// before constructing).
type Property[T num.Real] struct {
	Kind           Kind
	TimeHorizon    int
	ConvergenceEps T
	Reach          []int
	Avoid          []int
	Reward         []T
	Discount       T
}

// New validates and constructs a Property per §4.7.
func New[T num.Real](kind Kind, timeHorizon int, eps T, reach, avoid []int, reward []T, discount T, numStates int) (*Property[T], error) {
	p := &Property[T]{
		Kind:           kind,
		TimeHorizon:    timeHorizon,
		ConvergenceEps: eps,
		Reach:          reach,
		Avoid:          avoid,
		Reward:         reward,
		Discount:       discount,
	}
	if err := p.Validate(numStates); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the §4.7 rules.
func (p *Property[T]) Validate(numStates int) error {
	if p.Kind.IsFiniteTime() && p.TimeHorizon < 1 {
		return fmt.Errorf("property: %w: time_horizon %d < 1", ierrors.ErrDomain, p.TimeHorizon)
	}
	if !p.Kind.IsFiniteTime() && p.ConvergenceEps <= 0 {
		return fmt.Errorf("property: %w: convergence_eps %v <= 0", ierrors.ErrDomain, p.ConvergenceEps)
	}
	for _, i := range p.Reach {
		if i < 0 || i >= numStates {
			return fmt.Errorf("property: %w: reach index %d out of [0,%d)", ierrors.ErrInvalidState, i, numStates)
		}
	}
	for _, i := range p.Avoid {
		if i < 0 || i >= numStates {
			return fmt.Errorf("property: %w: avoid index %d out of [0,%d)", ierrors.ErrInvalidState, i, numStates)
		}
	}
	avoidSet := make(map[int]bool, len(p.Avoid))
	for _, i := range p.Avoid {
		avoidSet[i] = true
	}
	for _, i := range p.Reach {
		if avoidSet[i] {
			return fmt.Errorf("property: %w: reach and avoid sets intersect at state %d", ierrors.ErrDomain, i)
		}
	}
	if p.Kind == FiniteTimeReward || p.Kind == InfiniteTimeReward {
		if len(p.Reward) != numStates {
			return fmt.Errorf("property: %w: reward array length %d, want %d", ierrors.ErrDimensionMismatch, len(p.Reward), numStates)
		}
		if p.Discount <= 0 {
			return fmt.Errorf("property: %w: discount %v <= 0", ierrors.ErrDomain, p.Discount)
		}
		if p.Kind == InfiniteTimeReward && p.Discount >= 1 {
			return fmt.Errorf("property: %w: infinite-time reward requires discount < 1, got %v", ierrors.ErrDomain, p.Discount)
		}
	}
	return nil
}

// ExpandDFASlab returns every linear index into a joint state space of the
// given shape whose coordinate on dfaAxis is a member of dfaStates.
func ExpandDFASlab(shape []int, dfaAxis int, dfaStates []int) []int {
	accept := make(map[int]bool, len(dfaStates))
	for _, s := range dfaStates {
		accept[s] = true
	}
	var out []int
	idx := make([]int, len(shape))
	var walk func(axis, linear int)
	walk = func(axis, linear int) {
		if axis == len(shape) {
			if accept[idx[dfaAxis]] {
				out = append(out, linear)
			}
			return
		}
		for v := 0; v < shape[axis]; v++ {
			idx[axis] = v
			walk(axis+1, linear*shape[axis]+v)
		}
	}
	walk(0, 0)
	return out
}
