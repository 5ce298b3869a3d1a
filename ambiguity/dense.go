// Package ambiguity implements the interval ambiguity set: the matrix-valued
// object holding, for a fixed marginal axis, the collection of interval
// distributions indexed by a source column.
package ambiguity

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
)

// Dense is a column-stochastic dense ambiguity set: lower and gap are laid
// out column-major (column j occupies [j*numTarget : (j+1)*numTarget)) so the
// Bellman inner loop can stream a whole column without a stride.
type Dense[T num.Real] struct {
	numTarget int
	numSource int
	lower     []T
	gap       []T
	sumLower  []T
}

// NewDenseFromBounds builds a Dense set from per-column lower and upper
// bound slices. Each of lowerCols, upperCols has numSource entries, each of
// length numTarget.
func NewDenseFromBounds[T num.Real](lowerCols, upperCols [][]T) (*Dense[T], error) {
	if len(lowerCols) != len(upperCols) {
		return nil, fmt.Errorf("ambiguity: %w: %d lower columns vs %d upper columns", ierrors.ErrDimensionMismatch, len(lowerCols), len(upperCols))
	}
	numSource := len(lowerCols)
	if numSource == 0 {
		return nil, fmt.Errorf("ambiguity: %w: zero source columns", ierrors.ErrDimensionMismatch)
	}
	numTarget := len(lowerCols[0])

	gapCols := make([][]T, numSource)
	for j := range lowerCols {
		if len(lowerCols[j]) != numTarget || len(upperCols[j]) != numTarget {
			return nil, fmt.Errorf("ambiguity: %w: column %d has ragged length", ierrors.ErrDimensionMismatch, j)
		}
		col := make([]T, numTarget)
		for i := range col {
			col[i] = upperCols[j][i] - lowerCols[j][i]
		}
		gapCols[j] = col
	}
	return NewDense(lowerCols, gapCols)
}

// NewDense builds a Dense set directly from lower and gap columns, validating
// the §3.1 invariants.
func NewDense[T num.Real](lowerCols, gapCols [][]T) (*Dense[T], error) {
	if len(lowerCols) != len(gapCols) {
		return nil, fmt.Errorf("ambiguity: %w: %d lower columns vs %d gap columns", ierrors.ErrDimensionMismatch, len(lowerCols), len(gapCols))
	}
	numSource := len(lowerCols)
	if numSource == 0 {
		return nil, fmt.Errorf("ambiguity: %w: zero source columns", ierrors.ErrDimensionMismatch)
	}
	numTarget := len(lowerCols[0])

	d := &Dense[T]{
		numTarget: numTarget,
		numSource: numSource,
		lower:     make([]T, numSource*numTarget),
		gap:       make([]T, numSource*numTarget),
		sumLower:  make([]T, numSource),
	}

	for j := 0; j < numSource; j++ {
		if len(lowerCols[j]) != numTarget || len(gapCols[j]) != numTarget {
			return nil, fmt.Errorf("ambiguity: %w: column %d has ragged length", ierrors.ErrDimensionMismatch, j)
		}
		var sumLower, sumGap T
		base := j * numTarget
		for i := 0; i < numTarget; i++ {
			l := lowerCols[j][i]
			g := gapCols[j][i]
			if l < 0 || g < 0 {
				return nil, fmt.Errorf("ambiguity: %w: column %d row %d has negative bound (lower=%v gap=%v)", ierrors.ErrInvalidInterval, j, i, l, g)
			}
			if l+g > 1 {
				return nil, fmt.Errorf("ambiguity: %w: column %d row %d has lower+gap=%v > 1", ierrors.ErrInvalidInterval, j, i, l+g)
			}
			d.lower[base+i] = l
			d.gap[base+i] = g
			sumLower += l
			sumGap += g
		}
		if sumLower > 1 {
			return nil, fmt.Errorf("ambiguity: %w: column %d sum_lower=%v exceeds 1", ierrors.ErrInvalidInterval, j, sumLower)
		}
		if sumLower+sumGap < 1 {
			return nil, fmt.Errorf("ambiguity: %w: column %d sum_lower+sum_gap=%v cannot reach 1", ierrors.ErrInvalidInterval, j, sumLower+sumGap)
		}
		d.sumLower[j] = sumLower
	}

	return d, nil
}

// NumTarget is the number of target (destination) indices.
func (d *Dense[T]) NumTarget() int { return d.numTarget }

// NumSource is the number of source columns.
func (d *Dense[T]) NumSource() int { return d.numSource }

// SumLower returns the cached per-column sum of the lower bounds.
func (d *Dense[T]) SumLower(j int) T { return d.sumLower[j] }

// Column returns read-only views of the lower and gap vectors for source
// column j. Does not allocate.
func (d *Dense[T]) Column(j int) (lower, gap []T) {
	base := j * d.numTarget
	return d.lower[base : base+d.numTarget], d.gap[base : base+d.numTarget]
}

// Upper allocates and returns the upper bound column (lower + gap). Not for
// use in hot loops.
func (d *Dense[T]) Upper(j int) []T {
	lower, gap := d.Column(j)
	upper := make([]T, d.numTarget)
	for i := range upper {
		upper[i] = lower[i] + gap[i]
	}
	return upper
}
