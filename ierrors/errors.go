// Package ierrors holds the sentinel errors for robustmdp, so callers can
// errors.Is against a stable taxonomy instead of parsing messages.
package ierrors

import "errors"

var (
	// ErrInvalidInterval: lower/upper/gap violates non-negativity, lower+gap<=1,
	// or the per-column feasibility band (sum_lower <= 1 <= sum_lower+sum_gap).
	ErrInvalidInterval = errors.New("robustmdp: invalid interval bounds")

	// ErrDimensionMismatch: reward shape != state shape, marginal dependence set
	// inconsistent with system axes, stateptr length inconsistent with action
	// block count.
	ErrDimensionMismatch = errors.New("robustmdp: dimension mismatch")

	// ErrInvalidState: an index in reach/avoid/safe/terminal falls outside the
	// state (or DFA) range, or a tuple's arity differs from the system's.
	ErrInvalidState = errors.New("robustmdp: invalid state index")

	// ErrDomain: time_horizon < 1, convergence_eps <= 0, discount out of
	// (0,1) for infinite-time reward, or reach and avoid overlap.
	ErrDomain = errors.New("robustmdp: domain error")

	// ErrIncompatible: time-varying strategy against an infinite-time property,
	// a basic property against a product system or vice versa, a given
	// strategy handed to a synthesis problem, or a strategy action outside
	// the action range.
	ErrIncompatible = errors.New("robustmdp: incompatible combination")

	// ErrResource: alternative-backend resource exhaustion (e.g. GPU
	// out-of-shared-memory); never raised by the CPU path.
	ErrResource = errors.New("robustmdp: resource exhausted")
)
