package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// BandwidthMethod names a kernel bandwidth rule.
type BandwidthMethod string

const (
	BandwidthScott     BandwidthMethod = "scott"
	BandwidthSilverman BandwidthMethod = "silverman"
)

const (
	kdeCut = 3
	// defaultMaxBins caps Freedman–Diaconis when DistOptions.MaxBins is unset.
	defaultMaxBins = 50
)

// Range is a closed interval.
type Range struct {
	Lo, Hi float64
}

// DistOptions controls Distributions.
type DistOptions struct {
	Hist bool
	KDE  bool
	// Bins fixes the histogram bin count; 0 selects Freedman–Diaconis capped at MaxBins.
	Bins     int
	// MaxBins caps the Freedman–Diaconis count; <= 0 means 50.
	MaxBins  int
	NormHist bool
	// Grid fixes the density evaluation points; nil spans the data support.
	Grid     []float64
	GridSize int
	// Clip bounds the default grid. nil means unbounded.
	Clip *Range
	// Bandwidth selects the rule; BandwidthFactor > 0 overrides it with a fixed factor.
	Bandwidth       BandwidthMethod
	BandwidthFactor float64
}

// DefaultDistOptions returns histogram and density with normalized counts.
func DefaultDistOptions() DistOptions {
	return DistOptions{
		Hist:      true,
		KDE:       true,
		MaxBins:   defaultMaxBins,
		NormHist:  true,
		GridSize:  100,
		Bandwidth: BandwidthScott,
	}
}

// Histogram holds bin counts and the len(Counts)+1 bin edges.
type Histogram struct {
	Counts []float64
	Edges  []float64
}

// Density is a Gaussian kernel density estimate evaluated on Grid.
type Density struct {
	Grid   []float64
	Values []float64
	// Bandwidth is the support bandwidth: factor times the population std.
	Bandwidth float64
}

// Distribution carries whichever parts were requested.
type Distribution struct {
	Hist *Histogram
	KDE  *Density
}

// FreedmanDiaconisBins returns the uncapped Freedman–Diaconis bin count,
// falling back to ceil(sqrt(n)) when the interquartile range is zero.
// Counts too large for an int32 saturate at math.MaxInt32.
func FreedmanDiaconisBins(a []float64) int {
	n := float64(len(a))
	if n == 0 {
		return 1
	}
	h := 2 * iqr(a) / math.Cbrt(n)
	if h == 0 {
		return int(math.Ceil(math.Sqrt(n)))
	}
	lo, hi := floats.Min(a), floats.Max(a)
	r := math.Ceil((hi - lo) / h)
	switch {
	case math.IsNaN(r) || r > math.MaxInt32:
		return math.MaxInt32
	case r < 1:
		return 1
	}
	return int(r)
}

// Distributions computes the histogram and/or kernel density of a.
// NaN values are dropped. When both parts are disabled it returns nil.
func Distributions(a []float64, opt DistOptions) (*Distribution, error) {
	if !opt.Hist && !opt.KDE {
		return nil, nil
	}
	vals := make([]float64, 0, len(a))
	for _, v := range a {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, ErrEmptySample
	}
	out := &Distribution{}
	if opt.Hist {
		bins := opt.Bins
		if bins <= 0 {
			bins = FreedmanDiaconisBins(vals)
			limit := opt.MaxBins
			if limit <= 0 {
				limit = defaultMaxBins
			}
			if bins > limit {
				bins = limit
			}
		}
		out.Hist = histogram(vals, bins, opt.NormHist)
	}
	if opt.KDE {
		d, err := kde(vals, opt)
		if err != nil {
			return nil, err
		}
		out.KDE = d
	}
	return out, nil
}

func histogram(vals []float64, bins int, norm bool) *Histogram {
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi
	counts := make([]float64, bins)
	width := hi - lo
	for _, v := range vals {
		idx := bins - 1
		if v < hi {
			idx = int((v - lo) / width * float64(bins))
			if idx >= bins {
				idx = bins - 1
			}
			// settle floating-point disagreement with the edges
			if idx > 0 && v < edges[idx] {
				idx--
			} else if idx < bins-1 && v >= edges[idx+1] {
				idx++
			}
		}
		counts[idx]++
	}
	if norm {
		total := floats.Sum(counts)
		if total > 0 {
			floats.Scale(1/total, counts)
		}
	}
	return &Histogram{Counts: counts, Edges: edges}
}

func bandwidthFactor(n int, opt DistOptions) (float64, error) {
	if opt.BandwidthFactor > 0 {
		return opt.BandwidthFactor, nil
	}
	switch opt.Bandwidth {
	case "", BandwidthScott:
		return math.Pow(float64(n), -1.0/5), nil
	case BandwidthSilverman:
		return math.Pow(float64(n)*3/4, -1.0/5), nil
	}
	return 0, fmt.Errorf("bandwidth %q: %w", opt.Bandwidth, ErrParse)
}

func kde(vals []float64, opt DistOptions) (*Density, error) {
	n := len(vals)
	factor, err := bandwidthFactor(n, opt)
	if err != nil {
		// retry with the default rule
		opt.Bandwidth, opt.BandwidthFactor = BandwidthScott, 0
		if factor, err = bandwidthFactor(n, opt); err != nil {
			return nil, err
		}
	}
	std := sampleStd(vals)
	if math.IsNaN(std) || std == 0 {
		return nil, fmt.Errorf("kde over %d values: %w", n, ErrDegenerateDistribution)
	}
	kernel := factor * std
	bw := factor * populationStd(vals)

	grid := opt.Grid
	if grid == nil {
		clip := Range{Lo: math.Inf(-1), Hi: math.Inf(1)}
		if opt.Clip != nil {
			clip = *opt.Clip
		}
		size := opt.GridSize
		if size <= 0 {
			size = 100
		} else if size < 2 {
			size = 2
		}
		lo := math.Max(floats.Min(vals)-bw*kdeCut, clip.Lo)
		hi := math.Min(floats.Max(vals)+bw*kdeCut, clip.Hi)
		grid = floats.Span(make([]float64, size), lo, hi)
	}
	norm := 1 / (float64(n) * kernel * math.Sqrt(2*math.Pi))
	dens := make([]float64, len(grid))
	for i, g := range grid {
		var s float64
		for _, v := range vals {
			z := (g - v) / kernel
			s += math.Exp(-0.5 * z * z)
		}
		dens[i] = s * norm
	}
	return &Density{Grid: grid, Values: dens, Bandwidth: bw}, nil
}
