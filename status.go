package spatialcart

import "io"

// statusWriter returns w, or io.Discard when w is nil, so progress
// reporting never needs a nil check at call sites.
func statusWriter(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
