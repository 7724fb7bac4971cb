package spatialcart

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PearsonR returns the Pearson correlation coefficient between x and y
// and its two-sided p-value under the exact t distribution with n-2
// degrees of freedom. The coefficient is NaN when either input has zero
// variance; the p-value is NaN whenever the coefficient is, and also for
// fewer than three observations. x and y must have the same length.
func PearsonR(x, y []float64) (r, p float64) {
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) || len(x) < 3 {
		return r, math.NaN()
	}
	if r*r >= 1 {
		return r, 0
	}

	df := float64(len(x) - 2)
	t := r * math.Sqrt(df/(1-r*r))
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return r, 2 * tdist.CDF(-math.Abs(t))
}

// rowCorrelations computes PearsonR of every row of m against target.
func rowCorrelations(m *mat.Dense, target []float64) (rs, ps []float64) {
	n, _ := m.Dims()
	rs = make([]float64, n)
	ps = make([]float64, n)
	for i := 0; i < n; i++ {
		rs[i], ps[i] = PearsonR(m.RawRowView(i), target)
	}
	return rs, ps
}
