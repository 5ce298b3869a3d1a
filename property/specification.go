package property

import "github.com/niceyeti/robustmdp/num"

// SatisfactionMode selects which interval bound to compute.
type SatisfactionMode int

const (
	Pessimistic SatisfactionMode = iota
	Optimistic
)

// StrategyMode selects what the controller prefers.
type StrategyMode int

const (
	Maximize StrategyMode = iota
	Minimize
)

// Specification bundles a Property with its satisfaction and strategy
// modes (§3.7).
type Specification[T num.Real] struct {
	Property         *Property[T]
	SatisfactionMode SatisfactionMode
	StrategyMode     StrategyMode
}

// UpperBound reports whether the Bellman operator should compute the
// optimistic (upper) interval bound.
func (s *Specification[T]) UpperBound() bool { return s.SatisfactionMode == Optimistic }

// MaximizeStrategy reports whether the controller maximizes.
func (s *Specification[T]) MaximizeStrategy() bool { return s.StrategyMode == Maximize }
