package bellman

import (
	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/strategy"
	"github.com/niceyeti/robustmdp/workspace"
)

// SparseStep runs one single-threaded Bellman step over a sparse (CSC)
// ambiguity set (§4.2's sparse kernel): per action, a local support list is
// sorted rather than using a single shared permutation.
func SparseStep[T num.Real](
	v []T,
	set *ambiguity.Sparse[T],
	stateptr []int32,
	cache strategy.Cache[T],
	ws *workspace.Sparse[T],
	upperBound, maximize bool,
	vNext []T,
) {
	numSourceStates := len(stateptr) - 1
	for jSource := 0; jSource < numSourceStates; jSource++ {
		start, end := stateptr[jSource], stateptr[jSource+1]
		if start == end {
			vNext[jSource] = v[jSource]
			continue
		}
		actionValues := ws.ActionValues[0][:0]
		for jAction := start; jAction < end; jAction++ {
			value := sparseColumnExpectation(v, set, int(jAction), ws.ValueGapPairs[0], upperBound)
			actionValues = append(actionValues, value)
		}
		vNext[jSource] = cache.Extract(actionValues, jSource, maximize)
	}
}

func sparseColumnExpectation[T num.Real](v []T, set *ambiguity.Sparse[T], j int, scratch []workspace.ValueGap[T], upperBound bool) T {
	rows, lower, gap := set.Column(j)
	pairs := scratch[:0]
	var dot T
	for k, row := range rows {
		dot += lower[k] * v[row]
		pairs = append(pairs, workspace.ValueGap[T]{Value: v[row], Gap: gap[k]})
	}
	rho := T(1) - set.SumLower(j)
	return dot + GapValueSparse(pairs, rho, upperBound)
}
