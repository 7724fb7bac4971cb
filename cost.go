package spatialcart

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CostConfig controls cost-matrix construction.
// Start with [DefaultCostConfig] and override the fields you need.
type CostConfig struct {
	// SourceNeighbors is the neighbor count k for the expression-space
	// graph. Must be >= 1 and < the number of rows. Default: 5.
	SourceNeighbors int

	// TargetNeighbors is the neighbor count k for the location-space
	// graph. Must be >= 1 and < the number of rows. Default: 5.
	TargetNeighbors int

	// Metric is the distance function used for neighbor search in both
	// spaces. Default: EuclideanMetric.
	Metric DistanceMetric

	// Workers controls the number of goroutines for the pairwise-distance
	// pass. 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Status receives human-readable progress lines. nil discards them.
	Status io.Writer
}

// DefaultCostConfig returns a CostConfig with reasonable defaults.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		SourceNeighbors: 5,
		TargetNeighbors: 5,
		Metric:          EuclideanMetric{},
	}
}

func applyCostDefaults(cfg *CostConfig) {
	if cfg.SourceNeighbors == 0 {
		cfg.SourceNeighbors = 5
	}
	if cfg.TargetNeighbors == 0 {
		cfg.TargetNeighbors = 5
	}
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// CostResult holds the two normalized cost matrices consumed as ground
// distances by an optimal-transport solver. Both are n×n, symmetric and
// mean-centered; entries may be negative.
type CostResult struct {
	Expression *mat.Dense
	Locations  *mat.Dense
}

// BuildCostMatrices turns raw expression data (n samples × m features)
// and raw spatial coordinates (n cells × 2 or 3) into the two cost
// matrices used for optimal-transport reconstruction.
//
// Per space, independently: a k-nearest-neighbor connectivity graph is
// built over the rows, the all-pairs shortest path (hop count) matrix is
// computed over it, the result is divided by its own maximum and the
// global mean is subtracted. In expression space only, disconnected
// pairs are first clipped to the maximum finite geodesic.
//
// The computation is deterministic: identical inputs yield identical
// outputs.
func BuildCostMatrices(expression, locations *mat.Dense, cfg CostConfig) (*CostResult, error) {
	applyCostDefaults(&cfg)
	status := statusWriter(cfg.Status)

	if expression == nil || locations == nil {
		return nil, fmt.Errorf("%w: expression and locations must be non-nil", ErrShapeMismatch)
	}
	n, _ := expression.Dims()
	locRows, locDims := locations.Dims()
	if locRows != n {
		return nil, fmt.Errorf("%w: expression has %d rows, locations has %d", ErrShapeMismatch, n, locRows)
	}
	if locDims != 2 && locDims != 3 {
		return nil, fmt.Errorf("%w: locations must have 2 or 3 coordinate columns, got %d", ErrShapeMismatch, locDims)
	}

	start := time.Now()
	fmt.Fprint(status, "building cost matrices ... ")

	costExpression, err := costMatrix(expression, cfg.SourceNeighbors, cfg.Metric, true, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("expression space: %w", err)
	}
	costLocations, err := costMatrix(locations, cfg.TargetNeighbors, cfg.Metric, false, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("location space: %w", err)
	}

	fmt.Fprintf(status, "done (%.2f seconds)\n", time.Since(start).Seconds())

	return &CostResult{Expression: costExpression, Locations: costLocations}, nil
}

// costMatrix runs the per-space pipeline: k-nearest-neighbor graph,
// Floyd–Warshall geodesics, optional clipping of disconnected pairs,
// then normalization by the maximum and mean-centering.
func costMatrix(m *mat.Dense, k int, metric DistanceMetric, clip bool, workers int) (*mat.Dense, error) {
	n, _ := m.Dims()

	dist := PairwiseDistancesParallel(m, metric, workers)
	g, err := NearestNeighborGraph(dist, n, k)
	if err != nil {
		return nil, err
	}

	sp := ShortestPathMatrix(g, n)
	if clip {
		clipToFiniteMax(sp)
	}
	if err := normalizeCenter(sp); err != nil {
		return nil, err
	}

	return mat.NewDense(n, n, sp), nil
}

// normalizeCenter rescales sp by its maximum entry and subtracts the
// global mean, in place. A zero maximum means every geodesic collapsed;
// that is reported rather than silently producing NaN.
func normalizeCenter(sp []float64) error {
	maxVal := floats.Max(sp)
	if maxVal == 0 {
		return fmt.Errorf("%w: maximum shortest-path distance is zero", ErrDegenerateInput)
	}
	floats.Scale(1/maxVal, sp)
	floats.AddConst(-stat.Mean(sp, nil), sp)
	return nil
}
