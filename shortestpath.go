package spatialcart

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// ShortestPathMatrix computes the all-pairs shortest path length matrix
// of an unweighted graph with nodes 0..n-1 using Floyd–Warshall.
// Entry (i,j) is the geodesic hop count between rows i and j; the
// diagonal is 0 and disconnected pairs are +Inf. Returns a flat
// []float64 of length n×n in row-major order.
func ShortestPathMatrix(g *simple.UndirectedGraph, n int) []float64 {
	paths, _ := path.FloydWarshall(g)

	sp := make([]float64, n*n)
	for i := 0; i < n; i++ {
		sp[i*n+i] = 0
		for j := i + 1; j < n; j++ {
			d := paths.Weight(int64(i), int64(j))
			sp[i*n+j] = d
			sp[j*n+i] = d
		}
	}

	return sp
}

// clipToFiniteMax replaces every entry above the maximum finite entry
// (in particular +Inf, from disconnected pairs) with that maximum. This
// bounds the influence of disconnected components. If no finite positive
// entry exists the matrix is left untouched.
func clipToFiniteMax(sp []float64) {
	maxFinite := math.Inf(-1)
	for _, v := range sp {
		if !math.IsInf(v, 1) && v > maxFinite {
			maxFinite = v
		}
	}
	if math.IsInf(maxFinite, -1) {
		return
	}
	for i, v := range sp {
		if v > maxFinite {
			sp[i] = maxFinite
		}
	}
}
