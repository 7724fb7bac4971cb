package spatialcart

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// PairwiseDistances computes the full n×n distance matrix over the rows
// of m. Returns a flat []float64 of length n×n in row-major order.
func PairwiseDistances(m *mat.Dense, metric DistanceMetric) []float64 {
	n, _ := m.Dims()
	result := make([]float64, n*n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(m.RawRowView(i), m.RawRowView(j))
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}

	return result
}

// NearestNeighborGraph builds an undirected k-nearest-neighbor
// connectivity graph over n rows from their flat n×n distance matrix.
// Row i is connected to its k nearest other rows; edges contributed by
// either endpoint are kept, so a row may end up with more than k
// neighbors. Ties in distance are broken by lowest row index. Each row is
// implicitly its own zero-distance neighbor: graph geodesics treat
// dist(i,i) as 0, so no self loop is stored.
//
// Returns ErrInsufficientSamples when n <= k, since k distinct neighbors
// cannot be found.
func NearestNeighborGraph(dist []float64, n, k int) (*simple.UndirectedGraph, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: neighbor count must be >= 1, got %d", ErrInsufficientSamples, k)
	}
	if n <= k {
		return nil, fmt.Errorf("%w: %d-nearest-neighbor graph needs at least %d rows, got %d",
			ErrInsufficientSamples, k, k+1, n)
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}

	idx := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		idx = idx[:0]
		for j := 0; j < n; j++ {
			if j != i {
				idx = append(idx, j)
			}
		}
		row := dist[i*n : (i+1)*n]
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] < row[idx[b]] })
		for _, j := range idx[:k] {
			g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}

	return g, nil
}
