package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// quantile interpolates linearly between closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// iqr returns the interquartile range of vals.
func iqr(vals []float64) float64 {
	s := sortedCopy(vals)
	return quantile(s, 0.75) - quantile(s, 0.25)
}

// sampleStd is the n-1 standard deviation; NaN when fewer than two values.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	_, std := stat.MeanStdDev(vals, nil)
	return std
}

// populationStd is the n standard deviation.
func populationStd(vals []float64) float64 {
	n := float64(len(vals))
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return 0
	}
	return math.Sqrt(stat.Variance(vals, nil) * (n - 1) / n)
}
