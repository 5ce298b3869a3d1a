package bellman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// LPMcCormickPair computes the joint O-max-equivalent expectation for a
// two-axis factored source/action column by replacing the bilinear product
// p1_i*p2_j with its McCormick envelope and solving the resulting LP
// (§4.2's "LP McCormick relaxation" path). This is the float64-only path:
// gonum's lp.Simplex and mat.Dense are float64-native, so the generic
// T-parameterized engine converts to float64 at this boundary and back
// (see DESIGN.md).
//
// v is the joint value function flattened row-major over (axis1, axis2),
// i.e. v[i*n2+j] is the value of joint target (i,j).
func LPMcCormickPair(v []float64, lower1, upper1, lower2, upper2 []float64, maximize bool) (float64, error) {
	n1, n2 := len(lower1), len(lower2)
	if len(upper1) != n1 || len(lower2) != n2 || len(upper2) != n2 {
		return 0, fmt.Errorf("bellman: LPMcCormickPair: ragged axis bound slices")
	}
	if len(v) != n1*n2 {
		return 0, fmt.Errorf("bellman: LPMcCormickPair: value vector length %d, want %d", len(v), n1*n2)
	}

	// Variable layout: p1[0..n1) , p2[n1..n1+n2) , z[n1+n2 .. n1+n2+n1*n2)
	// followed by one slack per inequality row.
	idxP1 := func(i int) int { return i }
	idxP2 := func(j int) int { return n1 + j }
	idxZ := func(i, j int) int { return n1 + n2 + i*n2 + j }

	numVars := n1 + n2 + n1*n2
	// Inequality rows: 4 McCormick constraints per (i,j) pair.
	numIneq := 4 * n1 * n2
	numEq := 2 // sum p1 = 1, sum p2 = 1
	numRows := numEq + numIneq
	numCols := numVars + numIneq // one slack column per inequality row

	A := mat.NewDense(numRows, numCols, nil)
	b := make([]float64, numRows)
	row := 0

	for i := 0; i < n1; i++ {
		A.Set(row, idxP1(i), 1)
	}
	b[row] = 1
	row++
	for j := 0; j < n2; j++ {
		A.Set(row, idxP2(j), 1)
	}
	b[row] = 1
	row++

	slack := numVars
	addIneqLE := func(coeffs map[int]float64, rhs float64) {
		for idx, c := range coeffs {
			A.Set(row, idx, c)
		}
		A.Set(row, slack, 1)
		b[row] = rhs
		slack++
		row++
	}
	addIneqGE := func(coeffs map[int]float64, rhs float64) {
		// a.x >= rhs  <=>  -a.x + s = -rhs, s>=0
		for idx, c := range coeffs {
			A.Set(row, idx, -c)
		}
		A.Set(row, slack, 1)
		b[row] = -rhs
		slack++
		row++
	}

	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			z, p1, p2 := idxZ(i, j), idxP1(i), idxP2(j)
			l1, u1, l2, u2 := lower1[i], upper1[i], lower2[j], upper2[j]

			// z >= l1*p2 + l2*p1 - l1*l2
			addIneqGE(map[int]float64{z: 1, p2: -l1, p1: -l2}, -l1*l2)
			// z >= u1*p2 + u2*p1 - u1*u2
			addIneqGE(map[int]float64{z: 1, p2: -u1, p1: -u2}, -u1*u2)
			// z <= u1*p2 + l2*p1 - u1*l2
			addIneqLE(map[int]float64{z: 1, p2: -u1, p1: -l2}, -u1*l2)
			// z <= l1*p2 + u2*p1 - l1*u2
			addIneqLE(map[int]float64{z: 1, p2: -l1, p1: -u2}, -l1*u2)
		}
	}

	c := make([]float64, numCols)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			z := idxZ(i, j)
			if maximize {
				c[z] = -v[i*n2+j] // gonum's Simplex minimizes
			} else {
				c[z] = v[i*n2+j]
			}
		}
	}

	optF, _, err := lp.Simplex(c, A, b, 0, nil)
	if err != nil {
		return 0, fmt.Errorf("bellman: LPMcCormickPair: simplex: %w", err)
	}
	if maximize {
		return -optF, nil
	}
	return optF, nil
}
