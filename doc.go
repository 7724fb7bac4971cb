// Package spatialcart provides numerical routines for spatial
// transcriptomics reconstruction: cost-matrix construction for an
// optimal-transport mapping between expression space and physical space,
// and archetype discovery over a spatially reconstructed expression
// matrix.
//
// Cost matrices are built from k-nearest-neighbor graph geodesics in each
// space, normalized and mean-centered so an external OT solver can use
// them as ground distances:
//
//	cfg := spatialcart.DefaultCostConfig()
//	res, err := spatialcart.BuildCostMatrices(expression, locations, cfg)
//	// res.Expression and res.Locations feed the OT solver.
//
// Once a reconstructed matrix (genes × positions) exists, archetype
// discovery clusters gene rows with Ward linkage and scores every gene
// against its cluster's mean profile:
//
//	ar, err := spatialcart.FindSpatialArchetypes(sdge, 8, spatialcart.DefaultArchetypeConfig())
//	// ar.Archetypes, ar.Clusters (1-indexed), ar.GeneCorrelations
//
// Gene selection picks the genes significantly correlated with an
// archetype, either directly by archetype index or starting from a query
// gene:
//
//	genes, err := spatialcart.GenesFromArchetype(sdge, names, ar.Archetypes, 0, selCfg)
//	related, err := spatialcart.SpatiallyRelatedGenes(sdge, names, ar.Archetypes, geneIdx, selCfg)
//
// An empty selection is a normal outcome and returns a nil slice with a
// nil error; genuine misuse (shape mismatches, out-of-range indices)
// returns wrapped sentinel errors from errors.go.
//
// All matrices are *mat.Dense from gonum. Every function is a one-shot
// batch transform: inputs are never mutated and no state is kept between
// calls.
package spatialcart
