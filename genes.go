package spatialcart

import (
	"fmt"
	"io"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// DefaultMatchThreshold is the minimum query-gene/archetype correlation
// accepted by SpatiallyRelatedGenes.
const DefaultMatchThreshold = 0.7

// SelectionConfig controls gene selection against archetypes.
type SelectionConfig struct {
	// PValueThreshold is the largest two-sided p-value a positively
	// correlated gene may have and still be selected. Default: 0 (only
	// exact-zero p-values pass).
	PValueThreshold float64

	// MatchThreshold is the minimum correlation between a query gene and
	// its best archetype for SpatiallyRelatedGenes to proceed.
	// 0 means DefaultMatchThreshold.
	MatchThreshold float64

	// Workers controls the number of goroutines for the per-gene
	// correlation pass. 0 means use runtime.NumCPU().
	Workers int

	// Status receives human-readable progress lines. nil discards them.
	Status io.Writer
}

// DefaultSelectionConfig returns a SelectionConfig with reasonable defaults.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{MatchThreshold: DefaultMatchThreshold}
}

func applySelectionDefaults(cfg *SelectionConfig) {
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = DefaultMatchThreshold
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// GenesFromArchetype returns the names of the genes that best represent
// the archetype at archetypeIndex (0-indexed row of archetypes).
//
// Selection is a two-stage filter: genes are first restricted to those
// whose correlation with the archetype row is strictly positive, and the
// p-value threshold is then applied over that subset only.
//
// An empty selection is a normal outcome, not a fault: a message is
// written to the status stream and a nil slice is returned with a nil
// error.
func GenesFromArchetype(sdge *mat.Dense, geneNames []string, archetypes *mat.Dense, archetypeIndex int, cfg SelectionConfig) ([]string, error) {
	applySelectionDefaults(&cfg)
	status := statusWriter(cfg.Status)

	if err := checkSelectionShapes(sdge, geneNames, archetypes); err != nil {
		return nil, err
	}
	numArchetypes, _ := archetypes.Dims()
	if archetypeIndex < 0 || archetypeIndex >= numArchetypes {
		return nil, fmt.Errorf("%w: archetype index %d, have %d archetypes",
			ErrIndexOutOfRange, archetypeIndex, numArchetypes)
	}

	rs, ps := rowCorrelationsParallel(sdge, archetypes.RawRowView(archetypeIndex), cfg.Workers)

	var positive []int
	for g := range rs {
		if rs[g] > 0 {
			positive = append(positive, g)
		}
	}

	var selected []string
	for _, g := range positive {
		// NaN p-values (zero-variance rows) never pass.
		if ps[g] <= cfg.PValueThreshold {
			selected = append(selected, geneNames[g])
		}
	}

	if len(selected) == 0 {
		fmt.Fprintln(status, "no genes with significant correlation were found at the current p-value threshold")
		return nil, nil
	}
	return selected, nil
}

// SpatiallyRelatedGenes finds genes that correlate spatially with the
// query gene at geneIndex. The query gene is matched to the archetype it
// correlates with best (ties broken by first-occurring index); if that
// best correlation is below cfg.MatchThreshold, a message is written to
// the status stream and a nil slice is returned with a nil error.
// Otherwise selection is delegated to GenesFromArchetype for the matched
// archetype.
func SpatiallyRelatedGenes(sdge *mat.Dense, geneNames []string, archetypes *mat.Dense, geneIndex int, cfg SelectionConfig) ([]string, error) {
	applySelectionDefaults(&cfg)
	status := statusWriter(cfg.Status)

	if err := checkSelectionShapes(sdge, geneNames, archetypes); err != nil {
		return nil, err
	}
	genes, _ := sdge.Dims()
	if geneIndex < 0 || geneIndex >= genes {
		return nil, fmt.Errorf("%w: gene index %d, have %d genes", ErrIndexOutOfRange, geneIndex, genes)
	}

	rs, _ := rowCorrelationsParallel(archetypes, sdge.RawRowView(geneIndex), cfg.Workers)

	best := -1
	bestVal := math.Inf(-1)
	for a, r := range rs {
		if r > bestVal {
			bestVal = r
			best = a
		}
	}

	if best == -1 || bestVal < cfg.MatchThreshold {
		fmt.Fprintln(status, "no significant correlation between the gene and the spatial archetypes was found")
		return nil, nil
	}

	return GenesFromArchetype(sdge, geneNames, archetypes, best, cfg)
}

// checkSelectionShapes verifies that sdge, geneNames and archetypes line
// up: one name per gene row and one archetype column per sample column.
func checkSelectionShapes(sdge *mat.Dense, geneNames []string, archetypes *mat.Dense) error {
	if sdge == nil || archetypes == nil {
		return fmt.Errorf("%w: sdge and archetypes must be non-nil", ErrShapeMismatch)
	}
	genes, samples := sdge.Dims()
	if len(geneNames) != genes {
		return fmt.Errorf("%w: %d gene names for %d gene rows", ErrShapeMismatch, len(geneNames), genes)
	}
	if _, archSamples := archetypes.Dims(); archSamples != samples {
		return fmt.Errorf("%w: archetypes have %d columns, sdge has %d", ErrShapeMismatch, archSamples, samples)
	}
	return nil
}
