// Package workspace implements the scratch buffers for the Bellman inner
// loop (§4.4): permutation/action-value vectors for dense, value-gap pairs
// for sparse, and a composite for factored systems.
package workspace

import "github.com/niceyeti/robustmdp/num"

// Threaded reports whether the threshold rule (§4.4) says to use the
// multi-shard form: more than one thread available and the outer index
// count exceeds a small constant, so thread-startup cost doesn't dominate.
func Threaded(threads, outerCount int) bool {
	const minOuterForThreading = 10
	return threads > 1 && outerCount > minOuterForThreading
}

// Dense is the workspace for the dense Bellman kernel: a single shared
// permutation (computed once per iteration, read-only across shards) and
// one action-values scratch buffer per shard.
type Dense[T num.Real] struct {
	Perm         []int
	ActionValues [][]T
}

// NewDense allocates a Dense workspace. numShards is 1 for the
// single-threaded form.
func NewDense[T num.Real](numTarget, maxActions, numShards int) *Dense[T] {
	if numShards < 1 {
		numShards = 1
	}
	w := &Dense[T]{
		Perm:         make([]int, numTarget),
		ActionValues: make([][]T, numShards),
	}
	for i := range w.ActionValues {
		w.ActionValues[i] = make([]T, maxActions)
	}
	return w
}

// ValueGap is one (value, gap) pair in a sparse column's local support list.
type ValueGap[T num.Real] struct {
	Value T
	Gap   T
}

// Sparse is the workspace for the sparse Bellman kernel: per-shard
// value-gap scratch (sized to the largest column support) and per-shard
// action-values scratch.
type Sparse[T num.Real] struct {
	ValueGapPairs [][]ValueGap[T]
	ActionValues  [][]T
}

// NewSparse allocates a Sparse workspace.
func NewSparse[T num.Real](maxSupport, maxActions, numShards int) *Sparse[T] {
	if numShards < 1 {
		numShards = 1
	}
	w := &Sparse[T]{
		ValueGapPairs: make([][]ValueGap[T], numShards),
		ActionValues:  make([][]T, numShards),
	}
	for i := range w.ValueGapPairs {
		w.ValueGapPairs[i] = make([]ValueGap[T], maxSupport)
		w.ActionValues[i] = make([]T, maxActions)
	}
	return w
}

// Factored holds one per-axis workspace (Dense or Sparse, stored as `any`
// since axes may mix representations) plus an optional intermediate value
// tensor. The vertex-enumeration and LP-McCormick kernels do not read it;
// they allocate their own scratch.
type Factored[T num.Real] struct {
	Axes         []any
	Intermediate []T
}

// NewFactored allocates a Factored workspace shell; callers populate Axes
// with per-axis Dense[T]/Sparse[T] workspaces matching each marginal's
// representation.
func NewFactored[T num.Real](numAxes int, intermediateSize int) *Factored[T] {
	return &Factored[T]{
		Axes:         make([]any, numAxes),
		Intermediate: make([]T, intermediateSize),
	}
}
