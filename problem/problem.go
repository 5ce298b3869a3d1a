// Package problem binds a system to a specification and optional strategy
// (§4.8), and dispatches to the value-iteration driver (§6.4's solve entry
// point).
package problem

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/bellman"
	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/property"
	"github.com/niceyeti/robustmdp/solve"
	"github.com/niceyeti/robustmdp/strategy"
	"github.com/niceyeti/robustmdp/system"
)

// Kind distinguishes verification from control synthesis.
type Kind int

const (
	Verification Kind = iota
	ControlSynthesis
)

// Algorithm re-exports bellman.Algorithm for callers that don't otherwise
// need the bellman package.
type Algorithm = bellman.Algorithm

// Problem is a VerificationProblem or ControlSynthesisProblem (§4.8).
type Problem[T num.Real] struct {
	Kind      Kind
	System    *system.Factored[T]
	Spec      *property.Specification[T]
	Given     *strategy.Strategy // verification only; nil means "none"
	Algorithm Algorithm
}

// NewVerification builds a verification problem, optionally against a given
// strategy (nil means explore adversarial action choice).
func NewVerification[T num.Real](sys *system.Factored[T], spec *property.Specification[T], given *strategy.Strategy, alg Algorithm) (*Problem[T], error) {
	p := &Problem[T]{Kind: Verification, System: sys, Spec: spec, Given: given, Algorithm: alg}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewControlSynthesis builds a synthesis problem: no given strategy is
// permitted (§7's "given-strategy with synthesis problem" incompatibility).
func NewControlSynthesis[T num.Real](sys *system.Factored[T], spec *property.Specification[T], alg Algorithm) (*Problem[T], error) {
	p := &Problem[T]{Kind: ControlSynthesis, System: sys, Spec: spec, Algorithm: alg}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Problem[T]) validate() error {
	if p.Algorithm == bellman.Unspecified {
		p.Algorithm = bellman.DefaultAlgorithm(p.System.N(), p.System.M())
	}
	if p.Kind == ControlSynthesis && p.Given != nil {
		return fmt.Errorf("problem: %w: control synthesis problem cannot carry a given strategy", ierrors.ErrIncompatible)
	}
	kind := p.Spec.Property.Kind
	if kind.IsProduct() && p.System.N() < 2 {
		return fmt.Errorf("problem: %w: product property requires a product system (N>=2)", ierrors.ErrIncompatible)
	}
	if p.Given != nil {
		if p.Given.Kind == strategy.TimeVarying && !kind.IsFiniteTime() {
			return fmt.Errorf("problem: %w: time-varying strategy against an infinite-time property", ierrors.ErrIncompatible)
		}
		if err := p.Given.Validate(p.System.NumStates(), p.System.NumActions()); err != nil {
			return err
		}
		if p.Given.Kind == strategy.TimeVarying && p.Given.Horizon() != p.Spec.Property.TimeHorizon {
			return fmt.Errorf("problem: %w: given strategy horizon %d != property horizon %d", ierrors.ErrIncompatible, p.Given.Horizon(), p.Spec.Property.TimeHorizon)
		}
	}
	return nil
}

// Solution is what solve() returns (§6.2).
type Solution[T num.Real] struct {
	Value      []T
	Iterations int
	Residual   []T
	Strategy   *strategy.Strategy // populated only for synthesis
}

// Options configures the driver run.
type Options struct {
	NumShards  int
	OnProgress solve.ProgressFunc
}

// Solve dispatches the problem to the value-iteration driver (§6.4). The
// non-factored case (N=M=1) runs over a single concatenated dense ambiguity
// set via solve.SolveDense; factored and product systems (N>1 or M>1) run
// via solve.SolveFactored, which drives the per-axis bellman kernels
// (VertexEnumerateColumn, LPMcCormickPair, OMaxBaselineColumn) selected by
// p.Algorithm.
func Solve[T num.Real](p *Problem[T], opts Options) (*Solution[T], error) {
	if p.System.N() != 1 || p.System.M() != 1 {
		return solveFactored(p, opts)
	}

	m := p.System.Marginals()[0]
	set, ok := m.Set().(*ambiguity.Dense[T])
	if !ok {
		return nil, fmt.Errorf("problem: %w: Solve's non-factored path requires a dense ambiguity set", ierrors.ErrIncompatible)
	}

	numStates := p.System.StateVars()[0]
	numActions := p.System.ActionVars()[0]
	sourceDims := p.System.SourceDims()[0]

	stateptr := make([]int32, numStates+1)
	for s := 0; s <= numStates; s++ {
		if s < sourceDims {
			stateptr[s] = int32(s * numActions)
		} else {
			// Sink states beyond source_dims contribute no action columns;
			// their block collapses to an empty range (self-loop).
			stateptr[s] = int32(sourceDims * numActions)
		}
	}

	cache, err := buildCache[T](p, numStates)
	if err != nil {
		return nil, err
	}

	criteria := buildCriteria[T](p.Spec.Property)

	result := solve.SolveDense(solve.DenseOptions[T]{
		Set:        set,
		Stateptr:   stateptr,
		Spec:       p.Spec,
		Criteria:   criteria,
		Cache:      cache,
		NumShards:  opts.NumShards,
		OnProgress: opts.OnProgress,
	})

	sol := &Solution[T]{Value: result.Value, Iterations: result.Iterations, Residual: result.Residual}
	if p.Kind == ControlSynthesis {
		sol.Strategy = extractStrategy(cache)
	}
	return sol, nil
}

// solveFactored drives a factored or product system (N>1 or M>1) through
// solve.SolveFactored.
func solveFactored[T num.Real](p *Problem[T], opts Options) (*Solution[T], error) {
	numStates := p.System.NumStates()

	cache, err := buildCache[T](p, numStates)
	if err != nil {
		return nil, err
	}

	criteria := buildCriteria[T](p.Spec.Property)

	result, err := solve.SolveFactored(solve.FactoredOptions[T]{
		System:    p.System,
		Spec:      p.Spec,
		Criteria:  criteria,
		Cache:     cache,
		Algorithm: p.Algorithm,
	})
	if err != nil {
		return nil, err
	}

	sol := &Solution[T]{Value: result.Value, Iterations: result.Iterations, Residual: result.Residual}
	if p.Kind == ControlSynthesis {
		sol.Strategy = extractStrategy(cache)
	}
	return sol, nil
}

func buildCache[T num.Real](p *Problem[T], numStates int) (strategy.Cache[T], error) {
	switch p.Kind {
	case Verification:
		if p.Given == nil {
			return strategy.NoneCache[T]{}, nil
		}
		switch p.Given.Kind {
		case strategy.Stationary:
			return &strategy.GivenCache[T]{Sigma: p.Given.StationaryActions}, nil
		case strategy.TimeVarying:
			return &strategy.TimeVaryingGivenCache[T]{Slabs: p.Given.TimeVaryingActions}, nil
		default:
			return strategy.NoneCache[T]{}, nil
		}
	case ControlSynthesis:
		if p.Spec.Property.Kind.IsFiniteTime() {
			return strategy.NewTimeVaryingCache[T](numStates), nil
		}
		return strategy.NewStationaryCache[T](numStates), nil
	default:
		return nil, fmt.Errorf("problem: %w: unknown problem kind %d", ierrors.ErrIncompatible, p.Kind)
	}
}

func buildCriteria[T num.Real](prop *property.Property[T]) solve.Criteria[T] {
	if prop.Kind.IsFiniteTime() {
		return solve.FixedIterationsCriteria[T]{N: prop.TimeHorizon}
	}
	return solve.ConvergenceCriteria[T]{Tol: prop.ConvergenceEps}
}

// extractStrategy reads the optimizing cache's recorded actions back into a
// Strategy value (§4.3's cache-to-strategy conversion).
func extractStrategy[T num.Real](cache strategy.Cache[T]) *strategy.Strategy {
	switch c := cache.(type) {
	case *strategy.StationaryCache[T]:
		return &strategy.Strategy{Kind: strategy.Stationary, StationaryActions: c.Actions}
	case *strategy.TimeVaryingCache[T]:
		return &strategy.Strategy{Kind: strategy.TimeVarying, TimeVaryingActions: c.Reversed()}
	default:
		return nil
	}
}
