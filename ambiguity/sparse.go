package ambiguity

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
)

// Sparse is a CSC-backed ambiguity set: lower and gap share the same
// nonzero pattern (rowIdx/colPtr), per §3.1 and the §9 design note that
// int32 indices are sufficient up to ~2e9 nonzeros.
type Sparse[T num.Real] struct {
	numTarget int
	numSource int
	colPtr    []int32
	rowIdx    []int32
	lowerVal  []T
	gapVal    []T
	sumLower  []T
}

// NewSparse builds a Sparse set from CSC components, validating the §3.1
// invariants over the declared nonzero pattern.
func NewSparse[T num.Real](numTarget, numSource int, colPtr, rowIdx []int32, lowerVal, gapVal []T) (*Sparse[T], error) {
	if len(colPtr) != numSource+1 {
		return nil, fmt.Errorf("ambiguity: %w: colPtr length %d, want %d", ierrors.ErrDimensionMismatch, len(colPtr), numSource+1)
	}
	nnz := len(rowIdx)
	if len(lowerVal) != nnz || len(gapVal) != nnz {
		return nil, fmt.Errorf("ambiguity: %w: rowIdx/lowerVal/gapVal length mismatch (%d/%d/%d)", ierrors.ErrDimensionMismatch, nnz, len(lowerVal), len(gapVal))
	}

	s := &Sparse[T]{
		numTarget: numTarget,
		numSource: numSource,
		colPtr:    colPtr,
		rowIdx:    rowIdx,
		lowerVal:  lowerVal,
		gapVal:    gapVal,
		sumLower:  make([]T, numSource),
	}

	for j := 0; j < numSource; j++ {
		start, end := colPtr[j], colPtr[j+1]
		if start < 0 || end < start || int(end) > nnz {
			return nil, fmt.Errorf("ambiguity: %w: column %d has invalid colPtr range [%d,%d)", ierrors.ErrDimensionMismatch, j, start, end)
		}
		var sumLower, sumGap T
		for k := start; k < end; k++ {
			row := rowIdx[k]
			if row < 0 || int(row) >= numTarget {
				return nil, fmt.Errorf("ambiguity: %w: column %d has row index %d out of [0,%d)", ierrors.ErrInvalidState, j, row, numTarget)
			}
			l, g := lowerVal[k], gapVal[k]
			if l < 0 || g < 0 {
				return nil, fmt.Errorf("ambiguity: %w: column %d row %d has negative bound (lower=%v gap=%v)", ierrors.ErrInvalidInterval, j, row, l, g)
			}
			if l+g > 1 {
				return nil, fmt.Errorf("ambiguity: %w: column %d row %d has lower+gap=%v > 1", ierrors.ErrInvalidInterval, j, row, l+g)
			}
			sumLower += l
			sumGap += g
		}
		if sumLower > 1 {
			return nil, fmt.Errorf("ambiguity: %w: column %d sum_lower=%v exceeds 1", ierrors.ErrInvalidInterval, j, sumLower)
		}
		if sumLower+sumGap < 1 {
			return nil, fmt.Errorf("ambiguity: %w: column %d sum_lower+sum_gap=%v cannot reach 1", ierrors.ErrInvalidInterval, j, sumLower+sumGap)
		}
		s.sumLower[j] = sumLower
	}

	return s, nil
}

func (s *Sparse[T]) NumTarget() int { return s.numTarget }
func (s *Sparse[T]) NumSource() int { return s.numSource }
func (s *Sparse[T]) SumLower(j int) T { return s.sumLower[j] }

// Column returns read-only views of the support's row indices, lower, and
// gap values for source column j. Does not allocate.
func (s *Sparse[T]) Column(j int) (rows []int32, lower, gap []T) {
	start, end := s.colPtr[j], s.colPtr[j+1]
	return s.rowIdx[start:end], s.lowerVal[start:end], s.gapVal[start:end]
}

// Support returns the number of nonzero entries in column j.
func (s *Sparse[T]) Support(j int) int {
	return int(s.colPtr[j+1] - s.colPtr[j])
}
