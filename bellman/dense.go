package bellman

import (
	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/strategy"
	"github.com/niceyeti/robustmdp/workspace"
)

// DenseStep runs one single-threaded Bellman step over a dense ambiguity
// set (§4.2's dense kernel): one shared permutation, a per-source-state
// loop over its action block, reduced through the strategy cache.
func DenseStep[T num.Real](
	v []T,
	set *ambiguity.Dense[T],
	stateptr []int32,
	cache strategy.Cache[T],
	ws *workspace.Dense[T],
	upperBound, maximize bool,
	vNext []T,
) {
	SortPermInto(v, upperBound, ws.Perm)

	numSourceStates := len(stateptr) - 1
	for jSource := 0; jSource < numSourceStates; jSource++ {
		start, end := stateptr[jSource], stateptr[jSource+1]
		if start == end {
			// No action block: an implicit sink state self-loops.
			vNext[jSource] = v[jSource]
			continue
		}
		actionValues := ws.ActionValues[0][:0]
		for jAction := start; jAction < end; jAction++ {
			lower, gap := set.Column(int(jAction))
			value := ColumnExpectation(v, lower, gap, set.SumLower(int(jAction)), ws.Perm)
			actionValues = append(actionValues, value)
		}
		vNext[jSource] = cache.Extract(actionValues, jSource, maximize)
	}
}
