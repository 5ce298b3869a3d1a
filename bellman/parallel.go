package bellman

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/strategy"
	"github.com/niceyeti/robustmdp/workspace"
)

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DenseStepParallel partitions the source-state loop statically across
// nShards goroutines, one errgroup.Go per shard, joined by a single
// fork-join barrier (group.Wait). Each shard writes disjoint slices of
// vNext and of the strategy cache, so no locking is required (§5).
func DenseStepParallel[T num.Real](
	v []T,
	set *ambiguity.Dense[T],
	stateptr []int32,
	cache strategy.Cache[T],
	ws *workspace.Dense[T],
	upperBound, maximize bool,
	vNext []T,
	nShards int,
) {
	SortPermInto(v, upperBound, ws.Perm)

	numSourceStates := len(stateptr) - 1
	g, _ := errgroup.WithContext(context.Background())
	for shard := 0; shard < nShards; shard++ {
		shard := shard
		lo, hi := partitionBounds(numSourceStates, nShards, shard)
		g.Go(func() error {
			actionScratch := ws.ActionValues[shard][:0]
			for jSource := lo; jSource < hi; jSource++ {
				start, end := stateptr[jSource], stateptr[jSource+1]
				if start == end {
					vNext[jSource] = v[jSource]
					continue
				}
				actionValues := actionScratch[:0]
				for jAction := start; jAction < end; jAction++ {
					lower, gap := set.Column(int(jAction))
					value := ColumnExpectation(v, lower, gap, set.SumLower(int(jAction)), ws.Perm)
					actionValues = append(actionValues, value)
				}
				vNext[jSource] = cache.Extract(actionValues, jSource, maximize)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// SparseStepParallel is the sparse analogue of DenseStepParallel.
func SparseStepParallel[T num.Real](
	v []T,
	set *ambiguity.Sparse[T],
	stateptr []int32,
	cache strategy.Cache[T],
	ws *workspace.Sparse[T],
	upperBound, maximize bool,
	vNext []T,
	nShards int,
) {
	numSourceStates := len(stateptr) - 1
	g, _ := errgroup.WithContext(context.Background())
	for shard := 0; shard < nShards; shard++ {
		shard := shard
		lo, hi := partitionBounds(numSourceStates, nShards, shard)
		g.Go(func() error {
			for jSource := lo; jSource < hi; jSource++ {
				start, end := stateptr[jSource], stateptr[jSource+1]
				if start == end {
					vNext[jSource] = v[jSource]
					continue
				}
				actionValues := ws.ActionValues[shard][:0]
				for jAction := start; jAction < end; jAction++ {
					value := sparseColumnExpectation(v, set, int(jAction), ws.ValueGapPairs[shard], upperBound)
					actionValues = append(actionValues, value)
				}
				vNext[jSource] = cache.Extract(actionValues, jSource, maximize)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// partitionBounds returns the [lo,hi) static partition of [0,n) assigned to
// shard out of nShards.
func partitionBounds(n, nShards, shard int) (lo, hi int) {
	base := n / nShards
	rem := n % nShards
	lo = shard*base + minInt(shard, rem)
	hi = lo + base
	if shard < rem {
		hi++
	}
	return lo, hi
}
