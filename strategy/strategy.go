// Package strategy implements the Strategy model (§3.5) and the strategy
// caches the Bellman operator uses to record or apply action choices (§4.3).
package strategy

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
)

// Kind tags which Strategy variant is populated.
type Kind int

const (
	// None means verification should explore adversarial action choice.
	None Kind = iota
	Stationary
	TimeVarying
)

// Strategy is a tagged union over the three variants in §3.5. Action
// choices are stored as a linear action index per source state (the index
// into that state's action block), one per joint state, linearized over
// state_vars.
type Strategy struct {
	Kind Kind

	// Stationary holds one action index per joint state (len == numStates).
	StationaryActions []int

	// TimeVarying holds, for each time step k = 0..horizon-1 in
	// chronological order, one action index per joint state. Value
	// iteration visits the slabs from the last one back to the first.
	TimeVaryingActions [][]int
}

// Validate checks the §3.5 invariant: every chosen action index lies within
// [0, numActions) for the corresponding state.
func (s *Strategy) Validate(numStates, numActions int) error {
	switch s.Kind {
	case None:
		return nil
	case Stationary:
		if len(s.StationaryActions) != numStates {
			return fmt.Errorf("strategy: %w: stationary strategy has %d entries, want %d", ierrors.ErrDimensionMismatch, len(s.StationaryActions), numStates)
		}
		return validateActions(s.StationaryActions, numActions)
	case TimeVarying:
		for k, slab := range s.TimeVaryingActions {
			if len(slab) != numStates {
				return fmt.Errorf("strategy: %w: time-varying slab %d has %d entries, want %d", ierrors.ErrDimensionMismatch, k, len(slab), numStates)
			}
			if err := validateActions(slab, numActions); err != nil {
				return fmt.Errorf("slab %d: %w", k, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("strategy: %w: unknown strategy kind %d", ierrors.ErrIncompatible, s.Kind)
	}
}

func validateActions(actions []int, numActions int) error {
	for s, a := range actions {
		if a < 0 || a >= numActions {
			return fmt.Errorf("strategy: %w: state %d chose action %d out of [0,%d)", ierrors.ErrIncompatible, s, a, numActions)
		}
	}
	return nil
}

// Horizon returns the length of a time-varying strategy, or 0 otherwise.
func (s *Strategy) Horizon() int {
	if s.Kind == TimeVarying {
		return len(s.TimeVaryingActions)
	}
	return 0
}
