// Package bellman implements the robust Bellman operator: the O-maximization
// inner loop, the dense/sparse/parallel kernels for non-factored ambiguity,
// and the factored kernel (vertex enumeration, LP-McCormick, O-max
// baseline) for orthogonal marginals (§4.2).
package bellman

import (
	"sort"

	"github.com/niceyeti/robustmdp/num"
	"github.com/niceyeti/robustmdp/workspace"
)

// Algorithm selects the factored-kernel strategy (§4.8). O-Maximization is
// exact only in the non-factored case (N=M=1); for a factored system it is
// offered only as an explicit, documented relaxation, never the implicit
// default. Unspecified is the Go zero value, reserved as a "let the caller
// decide" sentinel so problem.NewVerification/NewControlSynthesis can apply
// DefaultAlgorithm instead of silently landing on OMaximization.
type Algorithm int

const (
	Unspecified Algorithm = iota
	OMaximization
	LPMcCormickRelaxation
	VertexEnumeration
)

// DefaultAlgorithm picks the §4.8 default Bellman algorithm for a system
// with n marginal axes and m action variables: O-maximization exactly
// solves the non-factored case (n=m=1); LP-McCormick is the default for
// factored polytopic marginals, but LPMcCormickPair only handles exactly
// two axes, so wider factored systems default to exact vertex enumeration
// instead (bounded by MaxVertices; callers needing a cheaper relaxation for
// a wide factored system must request OMaximization explicitly).
func DefaultAlgorithm(n, m int) Algorithm {
	if n == 1 && m == 1 {
		return OMaximization
	}
	if n == 2 {
		return LPMcCormickRelaxation
	}
	return VertexEnumeration
}

// SortPerm returns a stable permutation of indices [0,len(v)) sorted by v,
// descending if desc is true (used for the upper-bound O-max pass),
// ascending otherwise (lower-bound pass). Ties resolve by index, which the
// §4.2 edge cases note is immaterial to the result. Allocates; callers on
// the hot Bellman-step path should use SortPermInto with a reused buffer
// instead (§4.4/§5: inner kernels do not allocate).
func SortPerm[T num.Real](v []T, desc bool) []int {
	perm := make([]int, len(v))
	SortPermInto(v, desc, perm)
	return perm
}

// SortPermInto sorts indices [0,len(v)) by v directly into perm (which must
// already have length len(v)), avoiding the allocation SortPerm makes on
// every call. This is what DenseStep/DenseStepParallel use against the
// workspace's single preallocated Perm buffer.
func SortPermInto[T num.Real](v []T, desc bool, perm []int) {
	for i := range perm {
		perm[i] = i
	}
	if desc {
		sort.SliceStable(perm, func(a, b int) bool { return v[perm[a]] > v[perm[b]] })
	} else {
		sort.SliceStable(perm, func(a, b int) bool { return v[perm[a]] < v[perm[b]] })
	}
}

// GapValueDense computes gap_value(V, gap, rho, perm) using the dense
// column's full-length gap vector and a precomputed shared permutation.
func GapValueDense[T num.Real](v, gap []T, rho T, perm []int) T {
	var sum T
	if rho <= 0 {
		return sum
	}
	remaining := rho
	for _, i := range perm {
		if remaining <= 0 {
			break
		}
		take := num.Min(remaining, gap[i])
		if take <= 0 {
			continue
		}
		sum += take * v[i]
		remaining -= take
	}
	return sum
}

// GapValueSparse computes gap_value over a column's local (value, gap)
// support pairs, sorted in place by desc. The sort is confined to the
// column's support size, not the full target dimension.
func GapValueSparse[T num.Real](pairs []workspace.ValueGap[T], rho T, desc bool) T {
	var sum T
	if rho <= 0 {
		return sum
	}
	if desc {
		sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Value > pairs[b].Value })
	} else {
		sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Value < pairs[b].Value })
	}
	remaining := rho
	for _, p := range pairs {
		if remaining <= 0 {
			break
		}
		take := num.Min(remaining, p.Gap)
		if take <= 0 {
			continue
		}
		sum += take * p.Value
		remaining -= take
	}
	return sum
}

// ColumnExpectation computes the full O-max expectation lower·V + gap_value
// for a dense column, given the shared permutation.
func ColumnExpectation[T num.Real](v, lower, gap []T, sumLower T, perm []int) T {
	var dot T
	for i, l := range lower {
		if l != 0 {
			dot += l * v[i]
		}
	}
	rho := T(1) - sumLower
	return dot + GapValueDense(v, gap, rho, perm)
}
