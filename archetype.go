package spatialcart

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ArchetypeConfig controls archetype discovery.
type ArchetypeConfig struct {
	// Workers controls the number of goroutines for the per-gene
	// correlation pass. 0 means use runtime.NumCPU().
	Workers int

	// Status receives human-readable progress lines. nil discards them.
	Status io.Writer
}

// DefaultArchetypeConfig returns an ArchetypeConfig with reasonable defaults.
func DefaultArchetypeConfig() ArchetypeConfig { return ArchetypeConfig{} }

// ArchetypeResult contains the output of archetype discovery.
type ArchetypeResult struct {
	// Archetypes has one row per cluster: the element-wise mean of the
	// gene rows assigned to it. Shape is numClusters × samples.
	Archetypes *mat.Dense

	// Clusters assigns each gene row a 1-indexed cluster ID in
	// [1, numClusters].
	Clusters []int

	// GeneCorrelations is the Pearson correlation of every gene row with
	// its own cluster's archetype row, each in [-1, 1]. NaN for
	// zero-variance rows.
	GeneCorrelations []float64
}

// FindSpatialArchetypes clusters the gene rows of sdge (genes × samples)
// with Ward's linkage, cuts the dendrogram into at most numClusters flat
// clusters, and returns the per-cluster mean expression profiles
// together with the cluster assignment and per-gene correlations.
//
// numClusters must be in [1, genes]; otherwise ErrInvalidClusterCount is
// returned. With numClusters == genes every gene is its own singleton
// archetype.
func FindSpatialArchetypes(sdge *mat.Dense, numClusters int, cfg ArchetypeConfig) (*ArchetypeResult, error) {
	if sdge == nil {
		return nil, fmt.Errorf("%w: sdge must be non-nil", ErrShapeMismatch)
	}
	genes, samples := sdge.Dims()
	if numClusters < 1 || numClusters > genes {
		return nil, fmt.Errorf("%w: want 1 <= clusters <= %d genes, got %d",
			ErrInvalidClusterCount, genes, numClusters)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	status := statusWriter(cfg.Status)

	start := time.Now()
	fmt.Fprint(status, "finding gene archetypes ... ")

	clusters := CutMaxClust(WardLinkage(sdge), genes, numClusters)

	archetypes := mat.NewDense(numClusters, samples, nil)
	counts := make([]float64, numClusters)
	for g := 0; g < genes; g++ {
		c := clusters[g] - 1
		counts[c]++
		row := sdge.RawRowView(g)
		for s := 0; s < samples; s++ {
			archetypes.Set(c, s, archetypes.At(c, s)+row[s])
		}
	}
	for c := 0; c < numClusters; c++ {
		// A cluster left empty by tie collapse yields a NaN row (0/0),
		// mirroring a mean over no members.
		for s := 0; s < samples; s++ {
			archetypes.Set(c, s, archetypes.At(c, s)/counts[c])
		}
	}

	corrs := geneArchetypeCorrelations(sdge, archetypes, clusters, cfg.Workers)

	fmt.Fprintf(status, "done (%.2f seconds)\n", time.Since(start).Seconds())

	return &ArchetypeResult{
		Archetypes:       archetypes,
		Clusters:         clusters,
		GeneCorrelations: corrs,
	}, nil
}
