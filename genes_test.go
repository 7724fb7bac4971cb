package spatialcart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// selectionFixture returns a 6×5 sdge, its gene names and two archetype
// rows: a rising profile and a falling one.
//
//	g0: rising, scaled (r=1 vs archetype 0)
//	g1: rising, shifted (r=1 vs archetype 0)
//	g2: falling (r=-1 vs archetype 0)
//	g3: noisy rising (0 < r < 1, p above zero)
//	g4: constant (zero variance, NaN correlation)
//	g5: symmetric zig-zag, exactly uncorrelated with both archetypes
func selectionFixture() (*mat.Dense, []string, *mat.Dense) {
	sdge := mat.NewDense(6, 5, []float64{
		2, 4, 6, 8, 10,
		2, 3, 4, 5, 6,
		5, 4, 3, 2, 1,
		1, 2, 3, 5, 4,
		7, 7, 7, 7, 7,
		3, 1, 2, 1, 3,
	})
	names := []string{"g0", "g1", "g2", "g3", "g4", "g5"}
	archetypes := mat.NewDense(2, 5, []float64{
		1, 2, 3, 4, 5,
		5, 4, 3, 2, 1,
	})
	return sdge, names, archetypes
}

func TestGenesFromArchetype_SelectsPositiveSignificant(t *testing.T) {
	sdge, names, archetypes := selectionFixture()
	cfg := DefaultSelectionConfig()
	cfg.PValueThreshold = 1e-9

	genes, err := GenesFromArchetype(sdge, names, archetypes, 0, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"g0", "g1"}, genes)
}

func TestGenesFromArchetype_ZeroThresholdNoExactZeroPValue(t *testing.T) {
	// Only imperfectly correlated genes: no p-value is exactly zero, so
	// the default threshold of 0 selects nothing.
	sdge := mat.NewDense(2, 5, []float64{
		1, 2, 3, 5, 4,
		2, 1, 3, 4, 5,
	})
	names := []string{"a", "b"}
	archetypes := mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5})

	var buf bytes.Buffer
	cfg := DefaultSelectionConfig()
	cfg.Status = &buf

	genes, err := GenesFromArchetype(sdge, names, archetypes, 0, cfg)
	require.NoError(t, err)
	assert.Nil(t, genes)
	assert.Contains(t, buf.String(), "no genes with significant correlation")
}

func TestGenesFromArchetype_LooseThresholdKeepsPositiveOnly(t *testing.T) {
	sdge, names, archetypes := selectionFixture()
	cfg := DefaultSelectionConfig()
	cfg.PValueThreshold = 1

	genes, err := GenesFromArchetype(sdge, names, archetypes, 0, cfg)
	require.NoError(t, err)
	// Every finite p-value passes at threshold 1; only strictly positive
	// correlations survive the first stage, and the NaN row never passes.
	assert.Equal(t, []string{"g0", "g1", "g3"}, genes)
}

func TestGenesFromArchetype_IndexOutOfRange(t *testing.T) {
	sdge, names, archetypes := selectionFixture()

	_, err := GenesFromArchetype(sdge, names, archetypes, -1, DefaultSelectionConfig())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = GenesFromArchetype(sdge, names, archetypes, 2, DefaultSelectionConfig())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestGenesFromArchetype_ShapeMismatch(t *testing.T) {
	sdge, names, archetypes := selectionFixture()

	_, err := GenesFromArchetype(sdge, names[:4], archetypes, 0, DefaultSelectionConfig())
	assert.ErrorIs(t, err, ErrShapeMismatch)

	narrow := mat.NewDense(2, 3, make([]float64, 6))
	_, err = GenesFromArchetype(sdge, names, narrow, 0, DefaultSelectionConfig())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSpatiallyRelatedGenes_DelegatesToBestArchetype(t *testing.T) {
	sdge, names, archetypes := selectionFixture()
	cfg := DefaultSelectionConfig()
	cfg.PValueThreshold = 1e-9

	// g0 correlates perfectly with archetype 0.
	genes, err := SpatiallyRelatedGenes(sdge, names, archetypes, 0, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"g0", "g1"}, genes)

	// g2 correlates perfectly with archetype 1.
	genes, err = SpatiallyRelatedGenes(sdge, names, archetypes, 2, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"g2"}, genes)
}

func TestSpatiallyRelatedGenes_WeakMatchReturnsNil(t *testing.T) {
	sdge, names, archetypes := selectionFixture()

	var buf bytes.Buffer
	cfg := DefaultSelectionConfig()
	cfg.Status = &buf

	// g5 is uncorrelated with both archetypes: best correlation is 0,
	// below the 0.7 default.
	genes, err := SpatiallyRelatedGenes(sdge, names, archetypes, 5, cfg)
	require.NoError(t, err)
	assert.Nil(t, genes)
	assert.Contains(t, buf.String(), "no significant correlation")
}

func TestSpatiallyRelatedGenes_ZeroVarianceQueryReturnsNil(t *testing.T) {
	sdge, names, archetypes := selectionFixture()

	// g4 has zero variance: every archetype correlation is NaN, which
	// never beats the match threshold.
	genes, err := SpatiallyRelatedGenes(sdge, names, archetypes, 4, DefaultSelectionConfig())
	require.NoError(t, err)
	assert.Nil(t, genes)
}

func TestSpatiallyRelatedGenes_MatchThresholdOverride(t *testing.T) {
	sdge, names, archetypes := selectionFixture()
	cfg := DefaultSelectionConfig()
	cfg.MatchThreshold = -1
	cfg.PValueThreshold = 1e-9

	// With the threshold disabled, even the uncorrelated query proceeds;
	// ties between archetypes resolve to the first index.
	genes, err := SpatiallyRelatedGenes(sdge, names, archetypes, 5, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"g0", "g1"}, genes)
}

func TestSpatiallyRelatedGenes_GeneIndexOutOfRange(t *testing.T) {
	sdge, names, archetypes := selectionFixture()

	_, err := SpatiallyRelatedGenes(sdge, names, archetypes, 6, DefaultSelectionConfig())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = SpatiallyRelatedGenes(sdge, names, archetypes, -1, DefaultSelectionConfig())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
