package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumericSummary holds the describe statistics of one numeric column plus the
// extra mode, skew and kurtosis rows and a robust outlier count.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
	Mode   float64
	Skew   float64
	Kurt   float64
	// Outliers via robust Z-score (MAD). OutliersChecked is false when the column
	// had too few values or detection was disabled.
	OutliersChecked  bool
	Outliers         int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
}

// minOutlierValues is the smallest sample size for which MAD outliers are reported.
const minOutlierValues = 8

// madScale makes the MAD-based z-score comparable to a standard z-score.
const madScale = 0.6745

// Summarize computes the statistics of vals, ignoring NaN entries. A threshold
// of 0 disables outlier detection.
func Summarize(column string, vals []float64, threshold float64) NumericSummary {
	x := finite(vals)
	n := len(x)
	s := NumericSummary{Column: column, Count: n, OutlierThreshold: threshold}
	nan := math.NaN()
	if n == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		s.Mode, s.Skew, s.Kurt = nan, nan, nan
		return s
	}
	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	s.Mean, s.Std = stat.MeanStdDev(x, nil)
	if n < 2 {
		s.Std = nan
	}
	s.Min = sorted[0]
	s.Max = sorted[n-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	s.Mode = mode(sorted)

	constant := s.Min == s.Max
	switch {
	case n < 3:
		s.Skew = nan
	case constant:
		s.Skew = 0
	default:
		s.Skew = stat.Skew(x, nil)
	}
	switch {
	case n < 4:
		s.Kurt = nan
	case constant:
		s.Kurt = 0
	default:
		s.Kurt = stat.ExKurtosis(x, nil)
	}

	if threshold > 0 && n >= minOutlierValues {
		s.OutliersChecked = true
		med, mad := medianMAD(x)
		if mad > 0 {
			for _, v := range x {
				z := math.Abs(madScale * (v - med) / mad)
				if z > threshold {
					s.Outliers++
				}
				if z > s.OutliersMaxAbsZ {
					s.OutliersMaxAbsZ = z
				}
			}
		}
	}
	return s
}

// mode returns the most frequent value of sorted, preferring the smallest on ties.
func mode(sorted []float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile interpolates linearly between the closest ranks of sorted.
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
