// Package solve implements the value-iteration driver (§4.5): property
// initialization, repeated Bellman steps with per-property post-processing,
// termination criteria, and strategy extraction.
package solve

import "github.com/niceyeti/robustmdp/num"

// Criteria decides when the driver stops.
type Criteria[T num.Real] interface {
	Terminate(k int, residual []T) bool
}

// FixedIterationsCriteria terminates once k reaches N (for finite-time
// properties, N is the property's time horizon).
type FixedIterationsCriteria[T num.Real] struct {
	N int
}

func (f FixedIterationsCriteria[T]) Terminate(k int, _ []T) bool { return k >= f.N }

// ConvergenceCriteria terminates once the residual's max-abs entry drops
// below Tol.
type ConvergenceCriteria[T num.Real] struct {
	Tol T
}

func (c ConvergenceCriteria[T]) Terminate(k int, residual []T) bool {
	var maxAbs T
	for _, r := range residual {
		a := r
		if a < 0 {
			a = -a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs < c.Tol
}
