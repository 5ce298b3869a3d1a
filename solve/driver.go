package solve

import (
	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/bellman"
	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/property"
	"github.com/niceyeti/robustmdp/strategy"
	"github.com/niceyeti/robustmdp/workspace"
)

// ProgressFunc is invoked once per iteration with the iteration count and
// the current max-abs residual; it may inspect progress but does not abort
// the run (§5's "cancellation/timeouts are not part of the core").
type ProgressFunc func(k int, maxResidual float64)

// ValueFunction holds the driver's current and previous arrays (§3.6).
// Previous doubles as the residual buffer after each step.
type ValueFunction[T num.Real] struct {
	Current  []T
	Previous []T
}

// Result is what a solve of a non-factored system produces (§6.2).
type Result[T num.Real] struct {
	Value      []T
	Iterations int
	Residual   []T
	Cache      strategy.Cache[T]
}

// DenseOptions configures a non-factored, dense-ambiguity-set solve.
type DenseOptions[T num.Real] struct {
	Set        *ambiguity.Dense[T]
	Stateptr   []int32
	Spec       *property.Specification[T]
	Criteria   Criteria[T]
	Cache      strategy.Cache[T]
	NumShards  int // 1 for single-threaded
	OnProgress ProgressFunc // optional, invoked once per iteration
}

// SolveDense runs the §4.5 value-iteration driver over a non-factored dense
// ambiguity set.
func SolveDense[T num.Real](opts DenseOptions[T]) Result[T] {
	numStates := len(opts.Stateptr) - 1
	vf := ValueFunction[T]{Current: make([]T, numStates), Previous: make([]T, numStates)}

	p := opts.Spec.Property
	p.Initialize(vf.Current)
	copy(vf.Previous, vf.Current)

	maxActions := maxActionBlock(opts.Stateptr)
	ws := workspace.NewDense[T](opts.Set.NumTarget(), maxActions, maxShardCount(opts.NumShards))

	upperBound := opts.Spec.UpperBound()
	maximize := opts.Spec.MaximizeStrategy()

	runStep := func() {
		stepDense(vf.Current, opts.Set, opts.Stateptr, opts.Cache, ws, upperBound, maximize, opts.NumShards)
		p.StepPostprocess(vf.Current)
		opts.Cache.StepPostProcess()
	}

	// Step 0 runs unconditionally; previous still holds the initialized
	// values, so the first residual is the delta of step 0.
	runStep()
	k := 1
	residual := residualOf(vf)
	reportProgress(opts.OnProgress, 0, residual)

	for !opts.Criteria.Terminate(k, residual) {
		copy(vf.Previous, vf.Current)
		runStep()
		residual = residualOf(vf)
		reportProgress(opts.OnProgress, k, residual)
		k++
	}

	p.FinalPostprocess(vf.Current)

	return Result[T]{
		Value:      vf.Current,
		Iterations: k,
		Residual:   residual,
		Cache:      opts.Cache,
	}
}

// residualOf overwrites previous with current - previous: the signed change
// achieved by the step most recently run (previous held the pre-step
// baseline), and returns it.
func residualOf[T num.Real](vf ValueFunction[T]) []T {
	for i := range vf.Previous {
		vf.Previous[i] = vf.Current[i] - vf.Previous[i]
	}
	return vf.Previous
}

func stepDense[T num.Real](
	v []T,
	set *ambiguity.Dense[T],
	stateptr []int32,
	cache strategy.Cache[T],
	ws *workspace.Dense[T],
	upperBound, maximize bool,
	numShards int,
) {
	vNext := make([]T, len(stateptr)-1)
	if workspace.Threaded(numShards, len(stateptr)-1) {
		bellman.DenseStepParallel(v, set, stateptr, cache, ws, upperBound, maximize, vNext, numShards)
	} else {
		bellman.DenseStep(v, set, stateptr, cache, ws, upperBound, maximize, vNext)
	}
	copy(v, vNext)
}

func maxActionBlock(stateptr []int32) int {
	max := 0
	for i := 0; i+1 < len(stateptr); i++ {
		n := int(stateptr[i+1] - stateptr[i])
		if n > max {
			max = n
		}
	}
	return max
}

func maxShardCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func reportProgress[T num.Real](fn ProgressFunc, k int, residual []T) {
	if fn == nil {
		return
	}
	var maxAbs T
	for _, r := range residual {
		if r < 0 {
			r = -r
		}
		if r > maxAbs {
			maxAbs = r
		}
	}
	fn(k, float64(maxAbs))
}
