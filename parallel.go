package spatialcart

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// PairwiseDistancesParallel computes the full n×n distance matrix over
// the rows of m using multiple goroutines. numWorkers controls the
// degree of parallelism; if <= 1, it falls back to single-threaded
// PairwiseDistances.
//
// The result is bitwise identical to PairwiseDistances: a flat []float64
// of length n×n in row-major order.
func PairwiseDistancesParallel(m *mat.Dense, metric DistanceMetric, numWorkers int) []float64 {
	n, _ := m.Dims()
	if numWorkers <= 1 || n <= 1 {
		return PairwiseDistances(m, metric)
	}

	result := make([]float64, n*n)

	// Split rows across workers. Each worker handles a contiguous range of
	// "source" rows and computes dist(i,j) for all j > i in that range.
	// Since row ranges don't overlap, no synchronization is needed for writes.
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(m.RawRowView(i), m.RawRowView(j))
					result[i*n+j] = d
					result[j*n+i] = d
				}
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return result
}

// rowCorrelationsParallel computes PearsonR of every row of m against
// target using multiple goroutines. Each worker handles a contiguous
// range of rows independently. Falls back to sequential rowCorrelations
// if numWorkers <= 1.
func rowCorrelationsParallel(m *mat.Dense, target []float64, numWorkers int) (rs, ps []float64) {
	n, _ := m.Dims()
	if numWorkers <= 1 || n <= 1 {
		return rowCorrelations(m, target)
	}

	rs = make([]float64, n)
	ps = make([]float64, n)

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				rs[i], ps[i] = PearsonR(m.RawRowView(i), target)
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return rs, ps
}

// geneArchetypeCorrelations computes, for every gene row of sdge, the
// Pearson correlation with the archetype row of its assigned cluster.
// clusters uses 1-indexed IDs. Parallel across genes when numWorkers > 1;
// each gene is independent, so the split does not change results.
func geneArchetypeCorrelations(sdge, archetypes *mat.Dense, clusters []int, numWorkers int) []float64 {
	genes, _ := sdge.Dims()
	corrs := make([]float64, genes)

	if numWorkers <= 1 || genes <= 1 {
		for g := 0; g < genes; g++ {
			corrs[g], _ = PearsonR(sdge.RawRowView(g), archetypes.RawRowView(clusters[g]-1))
		}
		return corrs
	}

	var wg sync.WaitGroup
	rowsPerWorker := (genes + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, genes)
		if startRow >= genes {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for g := start; g < end; g++ {
				corrs[g], _ = PearsonR(sdge.RawRowView(g), archetypes.RawRowView(clusters[g]-1))
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return corrs
}
