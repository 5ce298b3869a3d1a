package ambiguity

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
)

// ConcatDense horizontally concatenates the per-source-state ambiguity sets
// (each holding that state's action columns) into one wide set, returning
// also the stateptr segmenting action blocks: actions for source state s
// occupy columns [stateptr[s], stateptr[s+1]).
func ConcatDense[T num.Real](perState []*Dense[T]) (combined *Dense[T], stateptr []int32, err error) {
	if len(perState) == 0 {
		return nil, nil, fmt.Errorf("ambiguity: %w: no per-state sets to concatenate", ierrors.ErrDimensionMismatch)
	}
	numTarget := perState[0].NumTarget()
	stateptr = make([]int32, len(perState)+1)

	var lowerCols, gapCols [][]T
	for s, set := range perState {
		if set.NumTarget() != numTarget {
			return nil, nil, fmt.Errorf("ambiguity: %w: source state %d has numTarget %d, want %d", ierrors.ErrDimensionMismatch, s, set.NumTarget(), numTarget)
		}
		stateptr[s] = int32(len(lowerCols))
		for a := 0; a < set.NumSource(); a++ {
			lower, gap := set.Column(a)
			lowerCols = append(lowerCols, lower)
			gapCols = append(gapCols, gap)
		}
	}
	stateptr[len(perState)] = int32(len(lowerCols))

	combined, err = NewDense(lowerCols, gapCols)
	if err != nil {
		return nil, nil, err
	}
	return combined, stateptr, nil
}

// ConcatSparse is the sparse analogue of ConcatDense.
func ConcatSparse[T num.Real](perState []*Sparse[T]) (combined *Sparse[T], stateptr []int32, err error) {
	if len(perState) == 0 {
		return nil, nil, fmt.Errorf("ambiguity: %w: no per-state sets to concatenate", ierrors.ErrDimensionMismatch)
	}
	numTarget := perState[0].NumTarget()
	stateptr = make([]int32, len(perState)+1)

	colPtr := []int32{0}
	var rowIdx []int32
	var lowerVal, gapVal []T
	for s, set := range perState {
		if set.NumTarget() != numTarget {
			return nil, nil, fmt.Errorf("ambiguity: %w: source state %d has numTarget %d, want %d", ierrors.ErrDimensionMismatch, s, set.NumTarget(), numTarget)
		}
		stateptr[s] = int32(len(colPtr) - 1)
		for a := 0; a < set.NumSource(); a++ {
			rows, lower, gap := set.Column(a)
			rowIdx = append(rowIdx, rows...)
			lowerVal = append(lowerVal, lower...)
			gapVal = append(gapVal, gap...)
			colPtr = append(colPtr, int32(len(rowIdx)))
		}
	}
	stateptr[len(perState)] = int32(len(colPtr) - 1)

	combined, err = NewSparse(numTarget, len(colPtr)-1, colPtr, rowIdx, lowerVal, gapVal)
	if err != nil {
		return nil, nil, err
	}
	return combined, stateptr, nil
}
