package normalize

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Percentile returns the p-th percentile of values using linear
// interpolation between the two closest ranks. values is not modified.
// p is clamped to [0, 100]. An empty slice yields NaN, as does any NaN
// in values.
func Percentile(values []float64, p float64) float64 {
	return Percentiles(values, p)[0]
}

// Percentiles computes several percentiles with a single sort.
func Percentiles(values []float64, ps ...float64) []float64 {
	out := make([]float64, len(ps))
	if len(values) == 0 || floats.HasNaN(values) {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	for i, p := range ps {
		out[i] = PercentileSorted(sorted, p)
	}
	return out
}

// PercentileSorted is Percentile for data already sorted ascending.
func PercentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if math.IsNaN(p) {
		return math.NaN()
	}
	p = math.Max(0, math.Min(100, p))

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	// Interpolate from the nearer end to keep the result within [a, b].
	a, b := sorted[lo], sorted[hi]
	if frac >= 0.5 {
		return b - (b-a)*(1-frac)
	}
	return a + (b-a)*frac
}
