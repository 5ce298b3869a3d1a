package bellman

import (
	"fmt"

	"github.com/niceyeti/robustmdp/ierrors"
	"github.com/niceyeti/robustmdp/num"
)

// MaxVertices bounds the per-axis vertex enumeration (§4.2's factored
// kernel edge case): vertex counts are factorial in target cardinality, so
// an axis wider than this is rejected rather than silently taking forever.
const MaxVertices = 5040 // 7!

// AxisVertices enumerates the extreme points of one axis's interval
// polytope: every permutation of target indices defines a vertex by
// pushing the residual mass greedily in that order (§4.2). Returns an
// error wrapping ierrors.ErrDomain if the axis is too wide to enumerate.
func AxisVertices[T num.Real](lower, gap []T, sumLower T) ([][]T, error) {
	n := len(lower)
	if factorial(n) > MaxVertices {
		return nil, fmt.Errorf("bellman: %w: axis width %d exceeds vertex enumeration cap", ierrors.ErrDomain, n)
	}
	rho := T(1) - sumLower
	var vertices [][]T
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	permute(perm, 0, func(order []int) {
		v := make([]T, n)
		copy(v, lower)
		remaining := rho
		for _, i := range order {
			if remaining <= 0 {
				break
			}
			take := num.Min(remaining, gap[i])
			v[i] += take
			remaining -= take
		}
		vertices = append(vertices, v)
	})
	return vertices, nil
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}

func permute(a []int, k int, emit func([]int)) {
	if k == len(a) {
		cp := make([]int, len(a))
		copy(cp, a)
		emit(cp)
		return
	}
	for i := k; i < len(a); i++ {
		a[k], a[i] = a[i], a[k]
		permute(a, k+1, emit)
		a[k], a[i] = a[i], a[k]
	}
}

// AxisColumn is one marginal axis's (lower, gap) pair for a fixed source
// state/action tuple; both slices have the target-axis cardinality as length.
type AxisColumn[T num.Real] struct {
	Lower []T
	Gap   []T
}

// VertexEnumerateColumn computes the joint O-max expectation for one source
// state/action tuple over N orthogonal marginals by enumerating each axis's
// vertices and taking the opt over all combinations of the resulting
// product distribution. v is the flattened joint value function; shape
// gives each target axis's cardinality.
func VertexEnumerateColumn[T num.Real](v []T, shape []int, axisCols []AxisColumn[T], maximize bool) (T, error) {
	vertexSets := make([][][]T, len(axisCols))
	for i, col := range axisCols {
		var sumLower T
		for _, l := range col.Lower {
			sumLower += l
		}
		vs, err := AxisVertices(col.Lower, col.Gap, sumLower)
		if err != nil {
			return 0, fmt.Errorf("axis %d: %w", i, err)
		}
		vertexSets[i] = vs
	}

	var best T
	first := true
	choice := make([][]T, len(vertexSets))
	var recurse func(axis int)
	recurse = func(axis int) {
		if axis == len(vertexSets) {
			val := jointExpectation(v, shape, choice)
			if first || (maximize && val > best) || (!maximize && val < best) {
				best = val
				first = false
			}
			return
		}
		for _, vertex := range vertexSets[axis] {
			choice[axis] = vertex
			recurse(axis + 1)
		}
	}
	recurse(0)
	return best, nil
}

// jointExpectation sums v[joint] * prod_i choice[i][joint_i] over every
// joint target index, skipping zero-probability branches.
func jointExpectation[T num.Real](v []T, shape []int, choice [][]T) T {
	var sum T
	linear := 0
	var walk func(axis int, prob T, linear int)
	walk = func(axis int, prob T, linear int) {
		if axis == len(shape) {
			sum += prob * v[linear]
			return
		}
		for i := 0; i < shape[axis]; i++ {
			p := choice[axis][i]
			if p == 0 {
				continue
			}
			walk(axis+1, prob*p, linear*shape[axis]+i)
		}
	}
	walk(0, 1, linear)
	return sum
}

// greedyDist returns the "natural order" extreme point of an axis's interval
// polytope: lower-bound mass plus the residual greedily assigned to target
// indices in index order. It's a fixed, cheap reference distribution used to
// hold the other axes steady while each axis is optimized in turn below.
func greedyDist[T num.Real](lower, gap []T, sumLower T) []T {
	n := len(lower)
	dist := make([]T, n)
	copy(dist, lower)
	remaining := T(1) - sumLower
	for i := 0; i < n && remaining > 0; i++ {
		take := num.Min(remaining, gap[i])
		dist[i] += take
		remaining -= take
	}
	return dist
}

// contractExcept tensor-contracts v against every axis's distribution in
// dists except axis, returning the length-shape[axis] vector of conditional
// expectations — the same contraction jointExpectation performs, with one
// axis left free.
func contractExcept[T num.Real](v []T, shape []int, dists [][]T, axis int) []T {
	out := make([]T, shape[axis])
	var walk func(a, linear, axisIdx int, prob T)
	walk = func(a, linear, axisIdx int, prob T) {
		if a == len(shape) {
			out[axisIdx] += prob * v[linear]
			return
		}
		if a == axis {
			for i := 0; i < shape[a]; i++ {
				walk(a+1, linear*shape[a]+i, i, prob)
			}
			return
		}
		for i := 0; i < shape[a]; i++ {
			p := dists[a][i]
			if p == 0 {
				continue
			}
			walk(a+1, linear*shape[a]+i, axisIdx, prob*p)
		}
	}
	walk(0, 0, 0, 1)
	return out
}

// OMaxBaselineColumn computes a feasible joint expectation by optimizing
// each axis's distribution independently against a tensor contraction of v
// with the other axes held at a fixed reference distribution, then combining
// the resulting per-axis distributions through the same joint contraction
// jointExpectation uses for vertex enumeration. Unlike summing independent
// per-axis expectations, this always combines a genuine product
// distribution, so the result is bounded within [min(V), max(V)] (§8's
// Bellman-algorithm agreement invariant). It trades optimality for O(N)
// axis passes instead of vertex enumeration's combinatorial blowup.
func OMaxBaselineColumn[T num.Real](v []T, shape []int, axisCols []AxisColumn[T], upperBound bool) T {
	n := len(axisCols)
	sumLowers := make([]T, n)
	ref := make([][]T, n)
	for i, col := range axisCols {
		for _, l := range col.Lower {
			sumLowers[i] += l
		}
		ref[i] = greedyDist(col.Lower, col.Gap, sumLowers[i])
	}

	dist := make([][]T, n)
	for i, col := range axisCols {
		w := contractExcept(v, shape, ref, i)
		perm := SortPerm(w, upperBound)
		axisDist := make([]T, len(w))
		copy(axisDist, col.Lower)
		remaining := T(1) - sumLowers[i]
		for _, idx := range perm {
			if remaining <= 0 {
				break
			}
			take := num.Min(remaining, col.Gap[idx])
			axisDist[idx] += take
			remaining -= take
		}
		dist[i] = axisDist
	}

	return jointExpectation(v, shape, dist)
}
