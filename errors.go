package spatialcart

import "errors"

// Sentinel errors returned by the package. Wrapped errors carry the
// offending values; use errors.Is to branch on the category.
var (
	// ErrInsufficientSamples indicates there are not enough rows to build a
	// k-nearest-neighbor graph (n must be at least k+1).
	ErrInsufficientSamples = errors.New("spatialcart: insufficient samples")

	// ErrDegenerateInput indicates a shortest-path matrix whose maximum is
	// zero, so cost normalization would divide by zero.
	ErrDegenerateInput = errors.New("spatialcart: degenerate input")

	// ErrInvalidClusterCount indicates a requested cluster count outside
	// [1, number of genes].
	ErrInvalidClusterCount = errors.New("spatialcart: invalid cluster count")

	// ErrIndexOutOfRange indicates an archetype or gene index outside the
	// valid row range.
	ErrIndexOutOfRange = errors.New("spatialcart: index out of range")

	// ErrShapeMismatch indicates matrices or name sequences whose dimensions
	// do not line up.
	ErrShapeMismatch = errors.New("spatialcart: shape mismatch")
)
